package domain

// Category is a top-level grouping of services (kelompok data).
type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"nama" json:"name"`
}

// Service is one civil-registration service type (jenis layanan).
type Service struct {
	ID         int64  `db:"id" json:"id"`
	Name       string `db:"nama" json:"name"`
	CategoryID int64  `db:"id_kelompok_data" json:"category_id"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
