package logic

// Navigator moves a cursor over cards laid out in a grid and keeps the
// cursor's row inside the viewport.
type Navigator struct {
	cursor         int
	total          int
	columns        int
	viewportOffset int // first visible row
	viewportRows   int
}

// NewNavigator creates a new navigator
func NewNavigator() *Navigator {
	return &Navigator{columns: 1, viewportRows: 1}
}

// UpdateState updates the navigator's state
func (n *Navigator) UpdateState(cursor, total, columns, viewportOffset, viewportRows int) {
	if columns < 1 {
		columns = 1
	}
	if viewportRows < 1 {
		viewportRows = 1
	}
	n.cursor = cursor
	n.total = total
	n.columns = columns
	n.viewportOffset = viewportOffset
	n.viewportRows = viewportRows
	n.clamp()
}

func (n *Navigator) Cursor() int { return n.cursor }

func (n *Navigator) ViewportOffset() int { return n.viewportOffset }

// Rows is the number of card rows needed for total cards.
func (n *Navigator) Rows() int {
	return (n.total + n.columns - 1) / n.columns
}

// Move applies a direction and returns the new cursor and viewport offset.
func (n *Navigator) Move(direction string) (int, int) {
	if n.total == 0 {
		return 0, 0
	}

	switch direction {
	case "up":
		if n.cursor-n.columns >= 0 {
			n.cursor -= n.columns
		}
	case "down":
		if n.cursor+n.columns < n.total {
			n.cursor += n.columns
		} else if n.cursor/n.columns < n.Rows()-1 {
			// Short last row: land on its last card
			n.cursor = n.total - 1
		}
	case "left":
		if n.cursor > 0 {
			n.cursor--
		}
	case "right":
		if n.cursor < n.total-1 {
			n.cursor++
		}
	case "pageup":
		n.cursor -= n.columns * n.viewportRows
	case "pagedown":
		n.cursor += n.columns * n.viewportRows
	case "home":
		n.cursor = 0
	case "end":
		n.cursor = n.total - 1
	}

	n.clamp()
	return n.cursor, n.viewportOffset
}

// SetCursor moves the cursor to index and scrolls it into view.
func (n *Navigator) SetCursor(index int) (int, int) {
	n.cursor = index
	n.clamp()
	return n.cursor, n.viewportOffset
}

func (n *Navigator) clamp() {
	if n.cursor >= n.total {
		n.cursor = n.total - 1
	}
	if n.cursor < 0 {
		n.cursor = 0
	}
	n.ensureCursorVisible()
}

func (n *Navigator) ensureCursorVisible() {
	row := n.cursor / n.columns
	if row < n.viewportOffset {
		n.viewportOffset = row
	}
	if row >= n.viewportOffset+n.viewportRows {
		n.viewportOffset = row - n.viewportRows + 1
	}

	maxOffset := n.Rows() - n.viewportRows
	if maxOffset < 0 {
		maxOffset = 0
	}
	if n.viewportOffset > maxOffset {
		n.viewportOffset = maxOffset
	}
	if n.viewportOffset < 0 {
		n.viewportOffset = 0
	}
}
