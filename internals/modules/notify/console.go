package notify

import (
	"sitepulse/internals/modules/report"
)

// logReport writes the structured per-outcome rendering of a cycle. This is
// the one output that is always produced, whatever channels are configured.
func (s *Service) logReport(rep *report.CycleReport) {
	passed := 0

	for _, o := range rep.Outcomes {
		icon := "❌"
		if o.Passed {
			icon = "✅"
			passed++
		}

		ev := s.logger.Info().
			Str("cycle_id", rep.ID.String()).
			Str("check", o.Name.Title()).
			Str("result", icon).
			Bool("passed", o.Passed)

		if o.StatusCode != 0 {
			ev = ev.Int("status_code", o.StatusCode)
		}
		if o.ResponseTime != 0 {
			ev = ev.Dur("response_time", o.ResponseTime)
		}
		if o.Details != "" {
			ev = ev.Str("details", o.Details)
		}
		if o.Err != "" {
			ev = ev.Str("err", o.Err)
		}
		if o.FinalURL != "" && o.FinalURL != o.TestedURL {
			ev = ev.Str("tested_url", o.TestedURL).Str("final_url", o.FinalURL)
		}

		ev.Msg("check result")
	}

	s.logger.Info().
		Str("cycle_id", rep.ID.String()).
		Str("overall", string(rep.OverallStatus)).
		Int("passed", passed).
		Int("total", len(rep.Outcomes)).
		Msg("cycle report")
}
