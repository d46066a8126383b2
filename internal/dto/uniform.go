package dto

// CadetRef identifies a cadet within count reports.
type CadetRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UniformTypeCount is the per-type inventory report. Issued reserve items are
// bucketed separately for display but still satisfy the per-cadet quota, so
// Missing can be zero while IssuedReserve is not.
type UniformTypeCount struct {
	TypeID              string     `json:"typeId"`
	TypeName            string     `json:"typeName"`
	Available           int        `json:"available"`
	Issued              int        `json:"issued"`
	Reserve             int        `json:"reserve"`
	IssuedReserve       int        `json:"issuedReserve"`
	IssuedReserveCadets []CadetRef `json:"issuedReserveCadets"`
	RequiredQuantity    int        `json:"requiredQuantity"`
	Missing             int        `json:"missing"`
	MissingCadets       []CadetRef `json:"missingCadets"`
}

// UniformSizeCount is one size bucket of a type.
type UniformSizeCount struct {
	SizeID        *string `json:"sizeId"`
	SizeName      string  `json:"sizeName"`
	Available     int     `json:"available"`
	Issued        int     `json:"issued"`
	Reserve       int     `json:"reserve"`
	IssuedReserve int     `json:"issuedReserve"`
}

// UniformSizeCountReport is the per-size breakdown of a single type. Sizes is
// empty when the type does not use sizes.
type UniformSizeCountReport struct {
	TypeID    string             `json:"typeId"`
	TypeName  string             `json:"typeName"`
	UsesSizes bool               `json:"usesSizes"`
	Sizes     []UniformSizeCount `json:"sizes"`
}
