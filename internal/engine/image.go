package engine

import "fmt"

// EvaluateImageProperties runs every property check and collects all findings.
// It never returns early; the size gate and format check happen at intake.
func EvaluateImageProperties(img ImageFacts, th Thresholds) []Finding {
	var out []Finding

	if img.Width < th.MinWidth || img.Height < th.MinHeight {
		out = append(out, Finding{
			Severity: SeverityReview,
			Message:  fmt.Sprintf("Image resolution too low: %dx%dpx", img.Width, img.Height),
		})
	}

	if img.Width > th.MaxWidth || img.Height > th.MaxHeight {
		out = append(out, Finding{
			Severity: SeverityReject,
			Message:  fmt.Sprintf("Image resolution too high: %dx%dpx", img.Width, img.Height),
		})
	}

	// height > 0 is guaranteed by the decoder
	if img.Height > 0 {
		ratio := float64(img.Width) / float64(img.Height)
		if ratio > th.MaxAspectRatio || ratio < th.MinAspectRatio {
			out = append(out, Finding{
				Severity: SeverityReview,
				Message: fmt.Sprintf("Aspect ratio out of bounds (%.1f-%.1f): %.2f",
					th.MinAspectRatio, th.MaxAspectRatio, ratio),
			})
		}
	}

	if img.Contrast < th.MinContrast {
		out = append(out, Finding{
			Severity: SeverityReview,
			Message:  fmt.Sprintf("Image contrast too low: %.2f", img.Contrast),
		})
	}

	return out
}
