package domain

// Row is a single record of a loaded table keyed by column name.
type Row map[string]string

// Get returns the raw value for a column, or "" when absent.
func (r Row) Get(column string) string {
	if r == nil {
		return ""
	}
	return r[column]
}

// Table is a row-oriented view of a CSV or spreadsheet file.
// Columns preserves header order; Rows preserve file order.
type Table struct {
	Name    string   `json:"name"`
	Source  string   `json:"source,omitempty"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// HasColumn reports whether the table header contains the column.
func (t *Table) HasColumn(column string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnMapping names the columns the preparation step reads from the
// fulfillment (left) and order (right) tables.
type ColumnMapping struct {
	LeftKey       string `yaml:"left_key" json:"left_key" validate:"required"`
	RightKey      string `yaml:"right_key" json:"right_key" validate:"required"`
	ProductColumn string `yaml:"product_column" json:"product_column" validate:"required"`
	StatusColumn  string `yaml:"status_column" json:"status_column" validate:"required"`
	PriceColumn   string `yaml:"price_column" json:"price_column" validate:"required"`
	DateColumn    string `yaml:"date_column" json:"date_column"`
}

// DefaultColumnMapping matches the seller panel exports: the forward report
// carries sub_order_num/order_status/meesho_price/order_date and the order
// export carries "Sub Order No"/"Product Name".
func DefaultColumnMapping() ColumnMapping {
	return ColumnMapping{
		LeftKey:       "sub_order_num",
		RightKey:      "Sub Order No",
		ProductColumn: "Product Name",
		StatusColumn:  "order_status",
		PriceColumn:   "meesho_price",
		DateColumn:    "order_date",
	}
}
