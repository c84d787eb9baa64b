package query

const (
	DefaultLimit = 20
	MaxLimit     = 200
)

// Pagination is a limit/offset window. A nil *Pagination means "everything".
type Pagination struct {
	Limit  int
	Offset int
}

// Normalize clamps the window to sane bounds.
func (p *Pagination) Normalize() {
	if p == nil {
		return
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}
