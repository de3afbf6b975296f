package theme

// Theme decides how each element of the field looks in a terminal cell.
type Theme interface {
	RenderTarget(hit bool) string
	RenderHitZone() string
	RenderDivider() string
	RenderFlash() string
	RenderHUD(text string) string
}
