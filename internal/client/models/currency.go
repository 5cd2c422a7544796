package models

type CustomCurrency struct {
	Meta
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

func (c *CustomCurrency) Kind() EntityKind         { return KindCustomCurrency }
func (c *CustomCurrency) Refs() map[RefField]ID    { return nil }
func (c *CustomCurrency) SetRef(f RefField, id ID) {}
func (c *CustomCurrency) SortKey() string          { return c.Code }

type CustomCurrencyPatch struct {
	Code   *string `json:"code,omitempty"`
	Name   *string `json:"name,omitempty"`
	Symbol *string `json:"symbol,omitempty"`
}

func (p *CustomCurrencyPatch) Kind() EntityKind         { return KindCustomCurrency }
func (p *CustomCurrencyPatch) Refs() map[RefField]ID    { return nil }
func (p *CustomCurrencyPatch) SetRef(f RefField, id ID) {}

func (p *CustomCurrencyPatch) Apply(r Record) error {
	c, ok := r.(*CustomCurrency)
	if !ok {
		return mismatch(p, r)
	}
	set(&c.Code, p.Code)
	set(&c.Name, p.Name)
	set(&c.Symbol, p.Symbol)
	return nil
}
