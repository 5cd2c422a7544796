package models

// Settings is a singleton per user.
type Settings struct {
	Meta
	DefaultCurrency      string `json:"defaultCurrency"`
	BlurFinancialFigures bool   `json:"blurFinancialFigures,omitempty"`
}

func (s *Settings) Kind() EntityKind         { return KindSettings }
func (s *Settings) Refs() map[RefField]ID    { return nil }
func (s *Settings) SetRef(f RefField, id ID) {}
func (s *Settings) SortKey() string          { return "" }

type SettingsPatch struct {
	DefaultCurrency      *string `json:"defaultCurrency,omitempty"`
	BlurFinancialFigures *bool   `json:"blurFinancialFigures,omitempty"`
}

func (p *SettingsPatch) Kind() EntityKind         { return KindSettings }
func (p *SettingsPatch) Refs() map[RefField]ID    { return nil }
func (p *SettingsPatch) SetRef(f RefField, id ID) {}

func (p *SettingsPatch) Apply(r Record) error {
	s, ok := r.(*Settings)
	if !ok {
		return mismatch(p, r)
	}
	set(&s.DefaultCurrency, p.DefaultCurrency)
	set(&s.BlurFinancialFigures, p.BlurFinancialFigures)
	return nil
}
