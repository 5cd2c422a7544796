package models

type IncomeSource struct {
	Meta
	Name      string `json:"name"`
	Currency  string `json:"currency"`
	Color     string `json:"color,omitempty"`
	Icon      string `json:"icon,omitempty"`
	SortOrder int    `json:"sortOrder"`
	Hidden    bool   `json:"hidden,omitempty"`
}

func (s *IncomeSource) Kind() EntityKind         { return KindIncomeSource }
func (s *IncomeSource) Refs() map[RefField]ID    { return nil }
func (s *IncomeSource) SetRef(f RefField, id ID) {}
func (s *IncomeSource) SortKey() string          { return s.Name }

type IncomeSourcePatch struct {
	Name      *string `json:"name,omitempty"`
	Currency  *string `json:"currency,omitempty"`
	Color     *string `json:"color,omitempty"`
	Icon      *string `json:"icon,omitempty"`
	SortOrder *int    `json:"sortOrder,omitempty"`
	Hidden    *bool   `json:"hidden,omitempty"`
}

func (p *IncomeSourcePatch) Kind() EntityKind         { return KindIncomeSource }
func (p *IncomeSourcePatch) Refs() map[RefField]ID    { return nil }
func (p *IncomeSourcePatch) SetRef(f RefField, id ID) {}

func (p *IncomeSourcePatch) Apply(r Record) error {
	s, ok := r.(*IncomeSource)
	if !ok {
		return mismatch(p, r)
	}
	set(&s.Name, p.Name)
	set(&s.Currency, p.Currency)
	set(&s.Color, p.Color)
	set(&s.Icon, p.Icon)
	set(&s.SortOrder, p.SortOrder)
	set(&s.Hidden, p.Hidden)
	return nil
}
