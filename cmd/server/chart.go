package main

import (
	"math"
	"strconv"
	"strings"

	"github.com/Simplici0/roi-sandbox/internal/report"
	"github.com/Simplici0/roi-sandbox/internal/roi"
)

const (
	chartWidth   = 640
	chartHeight  = 240
	chartPadding = 16
)

// sweepChart is an inline SVG line chart of a sweep's money outcomes.
// Point lists are ready for a polyline's points attribute.
type sweepChart struct {
	Width        int
	Height       int
	ZeroY        string
	TotalSavings string
	NetBenefit   string
	Top          string
	Bottom       string
}

func newSweepChart(sweep roi.Sweep) sweepChart {
	chart := sweepChart{Width: chartWidth, Height: chartHeight}
	if len(sweep.Points) == 0 {
		return chart
	}

	// Zero stays in range so the break-even line is always drawn.
	lo, hi := 0.0, 0.0
	for _, p := range sweep.Points {
		lo = math.Min(lo, math.Min(p.TotalSavings, p.NetBenefit))
		hi = math.Max(hi, math.Max(p.TotalSavings, p.NetBenefit))
	}
	if hi == lo {
		hi = lo + 1
	}

	plotW := float64(chartWidth - 2*chartPadding)
	plotH := float64(chartHeight - 2*chartPadding)
	y := func(v float64) float64 {
		return chartPadding + (hi-v)/(hi-lo)*plotH
	}
	x := func(i int) float64 {
		if len(sweep.Points) == 1 {
			return chartPadding
		}
		return chartPadding + float64(i)*plotW/float64(len(sweep.Points)-1)
	}

	savings := make([]string, 0, len(sweep.Points))
	net := make([]string, 0, len(sweep.Points))
	for i, p := range sweep.Points {
		savings = append(savings, svgPoint(x(i), y(p.TotalSavings)))
		net = append(net, svgPoint(x(i), y(p.NetBenefit)))
	}

	chart.ZeroY = svgCoord(y(0))
	chart.TotalSavings = strings.Join(savings, " ")
	chart.NetBenefit = strings.Join(net, " ")
	chart.Top = report.Money(hi)
	chart.Bottom = report.Money(lo)
	return chart
}

func svgPoint(x, y float64) string {
	return svgCoord(x) + "," + svgCoord(y)
}

func svgCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
