package theme

import "github.com/charmbracelet/lipgloss"

type DefaultTheme struct{}

const (
	targetSym  = "█"
	hitZoneSym = "━"
	dividerSym = "│"
	flashSym   = "✕"
)

var (
	targetStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#0000FF"))
	hitTargetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	hitZoneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	dividerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#323232"))
	flashStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
	hudStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
)

func (t *DefaultTheme) RenderTarget(hit bool) string {
	if hit {
		return hitTargetStyle.Render(targetSym)
	}
	return targetStyle.Render(targetSym)
}

func (t *DefaultTheme) RenderHitZone() string {
	return hitZoneStyle.Render(hitZoneSym)
}

func (t *DefaultTheme) RenderDivider() string {
	return dividerStyle.Render(dividerSym)
}

func (t *DefaultTheme) RenderFlash() string {
	return flashStyle.Render(flashSym)
}

func (t *DefaultTheme) RenderHUD(text string) string {
	return hudStyle.Render(text)
}
