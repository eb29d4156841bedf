package platform

// Insets is a per-edge inset applied to a Screen's detected workarea,
// the WORKAREA config section of spec.md §6: "per-screen-id dock
// insets {top,bottom,left,right} overriding detected workarea when
// more than one xinerama head is present."
type Insets struct {
	Top    int
	Bottom int
	Left   int
	Right  int
}

// overridePort wraps a Port, substituting configured WORKAREA insets
// for the detected per-screen workarea whenever more than one screen
// is reported. With a single screen, the detected (strut-derived)
// workarea already reflects the one monitor's docks accurately and the
// override table is ignored, matching spec.md §6's wording.
type overridePort struct {
	Port
	overrides map[int]Insets
}

// WithWorkareaOverrides decorates port so Screens() applies the
// configured per-screen-id insets. overrides may be nil or empty, in
// which case port is returned unwrapped.
func WithWorkareaOverrides(port Port, overrides map[int]Insets) Port {
	if len(overrides) == 0 {
		return port
	}
	return &overridePort{Port: port, overrides: overrides}
}

func (p *overridePort) Screens() ([]Screen, error) {
	screens, err := p.Port.Screens()
	if err != nil || len(screens) < 2 {
		return screens, err
	}
	out := make([]Screen, len(screens))
	for i, s := range screens {
		inset, ok := p.overrides[s.ID]
		if !ok {
			out[i] = s
			continue
		}
		wa := s.Bounds
		wa.X += inset.Left
		wa.Y += inset.Top
		wa.Width -= inset.Left + inset.Right
		wa.Height -= inset.Top + inset.Bottom
		if wa.Width < 0 {
			wa.Width = 0
		}
		if wa.Height < 0 {
			wa.Height = 0
		}
		s.Workarea = wa
		out[i] = s
	}
	return out, nil
}
