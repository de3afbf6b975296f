package game

// Tuning holds the field geometry and timing constants of a session.
// All positions are in field units, all times in seconds.
type Tuning struct {
	Width      float64 `yaml:"width" json:"width"`
	Height     float64 `yaml:"height" json:"height"`
	Columns    int     `yaml:"columns" json:"columns"`
	TargetSize float64 `yaml:"target_size" json:"target_size"`
	SpawnY     float64 `yaml:"spawn_y" json:"spawn_y"`
	FallSpeed  float64 `yaml:"fall_speed" json:"fall_speed"`
	HitZoneY   float64 `yaml:"hit_zone_y" json:"hit_zone_y"`
	Tolerance  float64 `yaml:"tolerance" json:"tolerance"`
	Linger     float64 `yaml:"linger" json:"linger"`

	// LeadIn of zero derives the lead-in from the travel time between
	// SpawnY and HitZoneY, so targets cross the hit zone on the beat.
	LeadIn float64 `yaml:"lead_in" json:"lead_in"`
}

func DefaultTuning() Tuning {
	return Tuning{
		Width:      800,
		Height:     600,
		Columns:    4,
		TargetSize: 50,
		SpawnY:     -50,
		FallSpeed:  300,
		HitZoneY:   500,
		Tolerance:  50,
		Linger:     0.2,
		LeadIn:     1.0,
	}
}

func (t Tuning) ColumnWidth() float64 {
	return t.Width / float64(t.Columns)
}

// ColumnX is the left edge of a target drawn in column c.
func (t Tuning) ColumnX(c int) float64 {
	cw := t.ColumnWidth()
	return float64(c)*cw + cw/2 - t.TargetSize/2
}

func (t Tuning) EffectiveLeadIn() float64 {
	if t.LeadIn != 0 {
		return t.LeadIn
	}
	return (t.HitZoneY - t.SpawnY) / t.FallSpeed
}

// InHitZone reports whether y lies strictly inside the tolerance window.
func (t Tuning) InHitZone(y float64) bool {
	return t.HitZoneY-t.Tolerance < y && y < t.HitZoneY+t.Tolerance
}
