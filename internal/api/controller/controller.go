package controller

import (
	"github.com/dukcapil-tegal/ajuan-monitor/internal/service/dashboard"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/service/reference"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/service/submission"
)

type Controller struct {
	reference  *reference.Service
	submission *submission.Service
	dashboard  *dashboard.Service
}

func NewController(
	referenceService *reference.Service,
	submissionService *submission.Service,
	dashboardService *dashboard.Service,
) *Controller {
	return &Controller{
		reference:  referenceService,
		submission: submissionService,
		dashboard:  dashboardService,
	}
}
