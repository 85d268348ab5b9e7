package world

// window holds exported world tile ids for the visible cells, indexed [x][y] from
// the window origin.
type window struct {
	originX, originY int
	width, height    int
	ids              [][]uint64
}

func (w window) get(x, y int) (uint64, bool) {
	lx, ly := x-w.originX, y-w.originY
	if w.ids == nil || lx < 0 || lx >= w.width || ly < 0 || ly >= w.height {
		return 0, false
	}
	return w.ids[lx][ly], true
}

func (w window) set(x, y int, id uint64) {
	lx, ly := x-w.originX, y-w.originY
	if lx < 0 || lx >= w.width || ly < 0 || ly >= w.height {
		return
	}
	w.ids[lx][ly] = id
}

// shifted returns a window of the same size at a new origin, carrying over every
// tile the two windows share. Cells that were not visible before read as zero.
func (w window) shifted(originX, originY int) window {
	next := window{originX: originX, originY: originY, width: w.width, height: w.height}
	next.ids = make([][]uint64, w.width)
	for lx := range next.ids {
		next.ids[lx] = make([]uint64, w.height)
		for ly := range next.ids[lx] {
			if id, ok := w.get(originX+lx, originY+ly); ok {
				next.ids[lx][ly] = id
			}
		}
	}
	return next
}
