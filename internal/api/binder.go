package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"

	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/constants"
)

// Binder binds path, query and body like echo's default binder and runs the
// validator afterwards, so handlers only need a single call.
type Binder struct {
	echo.DefaultBinder
}

func NewBinder() *Binder {
	return &Binder{}
}

func (b *Binder) Bind(i any, c echo.Context) error {
	if err := b.DefaultBinder.Bind(i, c); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return constants.NewCodedError(fmt.Sprint(he.Message), http.StatusBadRequest)
		}
		return constants.NewCodedError(err.Error(), http.StatusBadRequest)
	}

	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(i)
}

// jsonSerializer plugs bytedance/sonic into echo.
type jsonSerializer struct{}

func (jsonSerializer) Serialize(c echo.Context, i any, indent string) error {
	enc := sonic.ConfigStd.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (jsonSerializer) Deserialize(c echo.Context, i any) error {
	if err := sonic.ConfigStd.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid json: %s", err.Error())).SetInternal(err)
	}
	return nil
}
