// Package render formats advisory reports as chat-ready text. The same
// renderer backs the on-demand command, the alert loop, and the HTTP
// API, so every surface shows identical advice.
package render

import (
	"fmt"
	"strings"

	"github.com/kpederson/snowbot/internal/advisor"
	"github.com/kpederson/snowbot/internal/config"
)

func title(r advisor.Report) string {
	switch r.State {
	case advisor.StateBlowNow:
		return "🚨 **TIME TO SNOW BLOW NOW!**"
	case advisor.StateWait:
		return "⚠️ **WAIT - CONDITIONS NOT IDEAL**"
	case advisor.StateForecastAlert:
		return "⚠️ **FORECAST ALERT**"
	default:
		return "✅ **NO NEED TO SNOW BLOW NOW**"
	}
}

func temperature(r advisor.Report) string {
	if r.Temperature == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f°F", *r.Temperature)
}

// Advisory renders one full advisory message.
func Advisory(r advisor.Report, locationName string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", title(r))
	fmt.Fprintf(&b, "📍 **%s**\n\n", locationName)

	fmt.Fprintf(&b, "**Current Conditions**\n")
	fmt.Fprintf(&b, "🌡️ %s\n", temperature(r))
	fmt.Fprintf(&b, "💨 %.1f mph from %s\n", r.WindSpeed, r.WindFrom)
	fmt.Fprintf(&b, "📊 %s\n", r.WindCondition)
	fmt.Fprintf(&b, "❄️ %.2f\" accumulated (24hr)\n\n", r.PastAccumulation)

	fmt.Fprintf(&b, "**24-Hour Forecast**\n")
	fmt.Fprintf(&b, "❄️ %.2f\" expected\n", r.ForecastAccumulation)
	fmt.Fprintf(&b, "💨 Peak winds %.1f mph from %s\n", r.PeakWind, r.ForecastWindFrom)
	if r.ForecastWillExceed {
		if r.HoursUntilThreshold != nil {
			fmt.Fprintf(&b, "⚠️ Threshold in ~%dhrs\n", *r.HoursUntilThreshold)
		} else {
			fmt.Fprintf(&b, "⚠️ Will exceed %.1f\" threshold\n", r.ThresholdInches)
		}
	} else {
		fmt.Fprintf(&b, "✅ Stays below %.1f\" threshold\n", r.ThresholdInches)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "**Recommendation**\n")
	b.WriteString(recommendation(r))

	fmt.Fprintf(&b, "\nThreshold: %.1f\" | Max wind: %.1f mph", r.ThresholdInches, r.MaxSafeWindMPH)
	return b.String()
}

func recommendation(r advisor.Report) string {
	var b strings.Builder

	switch r.State {
	case advisor.StateBlowNow:
		fmt.Fprintf(&b, "✅ Snow: %.2f\" (threshold: %.1f\")\n", r.PastAccumulation, r.ThresholdInches)
		fmt.Fprintf(&b, "✅ Wind: %.1f mph (safe)\n", r.WindSpeed)
		fmt.Fprintf(&b, "📍 Blow direction: **%s** (wind flowing %s → %s)\n", strings.ToUpper(r.BlowTo), r.WindFrom, r.BlowTo)
		if r.ForecastWillExceed {
			fmt.Fprintf(&b, "⚠️ Another %.2f\" expected in 24hrs - you may need to blow again\n", r.ForecastAccumulation)
		}
	case advisor.StateWait:
		fmt.Fprintf(&b, "✅ Snow: %.2f\" (threshold: %.1f\")\n", r.PastAccumulation, r.ThresholdInches)
		fmt.Fprintf(&b, "❌ Wind: %.1f mph (max: %.1f mph)\n", r.WindSpeed, r.MaxSafeWindMPH)
		fmt.Fprintf(&b, "💨 %s\n", r.WindCondition)
		fmt.Fprintf(&b, "Wait for winds below %.1f mph. If urgent, blow toward **%s** (downwind).\n", r.MaxSafeWindMPH, r.BlowTo)
	default:
		remaining := r.ThresholdInches - r.PastAccumulation
		fmt.Fprintf(&b, "Current: %.2f\" | Threshold: %.1f\"\n", r.PastAccumulation, r.ThresholdInches)
		fmt.Fprintf(&b, "Need %.2f\" more to trigger.\n", remaining)
		if r.ForecastWillExceed {
			fmt.Fprintf(&b, "⚠️ Forecast alert: +%.2f\" expected in 24hrs", r.ForecastAccumulation)
			if r.HoursUntilThreshold != nil {
				fmt.Fprintf(&b, ", likely needed in ~%d hours", *r.HoursUntilThreshold)
			}
			b.WriteString(".\n")
			if !r.ForecastWindSafe {
				fmt.Fprintf(&b, "💨 Warning: peak winds (%.1f mph) may be too strong later - consider blowing preemptively.\n", r.PeakWind)
			} else {
				fmt.Fprintf(&b, "✅ Forecast winds look favorable - recommended direction: **%s**.\n", r.ForecastBlowTo)
			}
		}
	}
	return b.String()
}

// Alert renders the message the alert loop sends when blow-now
// conditions begin. Shorter than the full advisory; a subscriber can
// always ask for details on demand.
func Alert(r advisor.Report, locationName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🚨 **TIME TO SNOW BLOW NOW!** (%s)\n", locationName)
	fmt.Fprintf(&b, "❄️ %.2f\" accumulated (threshold: %.1f\")\n", r.PastAccumulation, r.ThresholdInches)
	fmt.Fprintf(&b, "💨 %.1f mph from %s - %s\n", r.WindSpeed, r.WindFrom, r.WindCondition)
	fmt.Fprintf(&b, "📍 Blow direction: **%s** (wind flowing %s → %s)", strings.ToUpper(r.BlowTo), r.WindFrom, r.BlowTo)
	return b.String()
}

// ConfigSummary renders the active configuration.
func ConfigSummary(cfg config.Config) string {
	var b strings.Builder
	b.WriteString("⚙️ **Snowbot Configuration**\n")
	fmt.Fprintf(&b, "Location: %s (%.4f, %.4f)\n", cfg.LocationName, cfg.Latitude, cfg.Longitude)
	fmt.Fprintf(&b, "Accumulation threshold: %.1f inches\n", cfg.AccumulationThreshold)
	fmt.Fprintf(&b, "Max wind speed: %.1f mph\n", cfg.MaxWindSpeed)
	fmt.Fprintf(&b, "Poll interval: %s", cfg.PollInterval)
	return b.String()
}
