package dto

type LineProgress struct {
	LineID   string `json:"line_id"`
	Scanned  int    `json:"associated"`
	Expected int    `json:"expected"`
}

func (p *LineProgress) Full() bool {
	return p.Scanned >= p.Expected
}
