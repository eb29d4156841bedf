package x11

// ViewportGeometry describes one pannable region within a desktop.
type ViewportGeometry struct {
	OriginX, OriginY int
	Width, Height    int
}

// Viewports reports the Compiz-style pan regions for a desktop whose
// workarea is screenWidth x screenHeight. A desktop whose total
// _NET_DESKTOP_GEOMETRY exceeds the screen size is assumed to be
// Compiz-paged: viewports tile the desktop geometry in screen-sized
// steps. A desktop whose geometry matches the screen size reports
// exactly one viewport at the origin, per spec.md's non-Compiz rule.
func (c *Connection) Viewports(screenWidth, screenHeight int) ([]ViewportGeometry, error) {
	totalWidth, totalHeight, err := c.DesktopGeometry()
	if err != nil {
		return nil, err
	}

	if screenWidth <= 0 || screenHeight <= 0 || totalWidth <= screenWidth && totalHeight <= screenHeight {
		return []ViewportGeometry{{Width: max(totalWidth, screenWidth), Height: max(totalHeight, screenHeight)}}, nil
	}

	cols := (totalWidth + screenWidth - 1) / screenWidth
	rows := (totalHeight + screenHeight - 1) / screenHeight

	viewports := make([]ViewportGeometry, 0, cols*rows)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			viewports = append(viewports, ViewportGeometry{
				OriginX: col * screenWidth,
				OriginY: row * screenHeight,
				Width:   screenWidth,
				Height:  screenHeight,
			})
		}
	}
	return viewports, nil
}
