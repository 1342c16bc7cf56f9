package importer

// Simulated upload progress. It only approximates activity: it climbs in
// steps while the request is pending, never past ProgressCeiling, and jumps
// to 100 once the server answers.
const (
	ProgressStep    = 10
	ProgressCeiling = 90
	ProgressDone    = 100
)

// Progress is a monotonically increasing percentage.
type Progress struct {
	value int
}

// Advance moves one step toward the ceiling and returns the new value.
func (p *Progress) Advance() int {
	if p.value < ProgressCeiling {
		p.value = min(p.value+ProgressStep, ProgressCeiling)
	}
	return p.value
}

// Complete snaps to 100.
func (p *Progress) Complete() int {
	p.value = ProgressDone
	return p.value
}
