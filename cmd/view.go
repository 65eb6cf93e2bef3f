package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/mittwald/redistatus/pkg/redisstatus"
)

var colorSuccess = lipgloss.Color("#00B785")

var styleHealthy = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
var styleUnhealthy = lipgloss.NewStyle().Foreground(lipgloss.Color("#e1244c")).Bold(true)
var styleHighlight = lipgloss.NewStyle().Foreground(lipgloss.Color("#407FF8")).Bold(true)
var styleNotSet = lipgloss.NewStyle().Foreground(lipgloss.Color("#5D689C"))

var styleStatusMainLine = lipgloss.NewStyle().Margin(1, 0, 0, 0)
var styleStatusDetails = lipgloss.NewStyle().PaddingLeft(2).MarginBottom(1)
var styleStatusLeftColumn = lipgloss.NewStyle().Width(20)

func statusLine(name string, result error) string {
	if result == nil {
		return lipgloss.JoinHorizontal(lipgloss.Left,
			styleHealthy.Render("▶︎"), " ",
			styleHighlight.Render(name), " (",
			styleHealthy.Render("healthy"), ")",
		)
	}

	return lipgloss.JoinHorizontal(lipgloss.Left,
		styleUnhealthy.Render("◼︎"), " ",
		styleHighlight.Render(name), " (",
		styleUnhealthy.Render("unhealthy"), "; reason=",
		styleHighlight.Render(result.Error()), ")",
	)
}

func renderResult(cfg redisstatus.Config, result error) string {
	threshold := styleNotSet.Render("not set")
	if cfg.MemoryThreshold > 0 {
		threshold = styleHighlight.Render(fmt.Sprintf("%d bytes", cfg.MemoryThreshold))
	}

	timeout := styleNotSet.Render("not set")
	if cfg.Timeout > 0 {
		timeout = styleHighlight.Render(cfg.Timeout.String())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		styleStatusMainLine.Render(statusLine(cfg.Name, result)),
		styleStatusDetails.Render(lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Left, styleStatusLeftColumn.Render("address:"), styleHighlight.Render(cfg.Addr())),
			lipgloss.JoinHorizontal(lipgloss.Left, styleStatusLeftColumn.Render("memory threshold:"), threshold),
			lipgloss.JoinHorizontal(lipgloss.Left, styleStatusLeftColumn.Render("timeout:"), timeout),
		)),
	)
}
