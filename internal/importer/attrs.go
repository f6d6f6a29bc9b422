package importer

import "github.com/simonhull/aup/internal/types"

// optional pairs a value with a presence flag. Absent fields never
// overwrite host defaults.
type optional[T any] struct {
	value T
	ok    bool
}

func (o *optional[T]) set(v T) {
	o.value = v
	o.ok = true
}

// projectAttrs accumulates the root tag's optional view and selection
// fields. They are applied to the host only when the host project was
// pristine at import start.
type projectAttrs struct {
	rate   optional[float64]
	snapto optional[bool]

	selectionformat optional[string]
	audiotimeformat optional[string]
	frequencyformat optional[string]
	bandwidthformat optional[string]

	vpos optional[int]
	h    optional[float64]
	zoom optional[float64]
	sel0 optional[float64]
	sel1 optional[float64]
}

// apply pushes every present field into the host view state. Rate, snap
// mode and the format names go first; the view position fields must be
// applied after the snap mode they are interpreted under.
func (a *projectAttrs) apply(v types.ViewState) {
	if a.rate.ok {
		v.SetRate(a.rate.value)
	}
	if a.snapto.ok {
		v.SetSnapTo(a.snapto.value)
	}
	if a.selectionformat.ok {
		v.SetSelectionFormat(a.selectionformat.value)
	}
	if a.audiotimeformat.ok {
		v.SetAudioTimeFormat(a.audiotimeformat.value)
	}
	if a.frequencyformat.ok {
		v.SetFrequencyFormat(a.frequencyformat.value)
	}
	if a.bandwidthformat.ok {
		v.SetBandwidthFormat(a.bandwidthformat.value)
	}
	if a.vpos.ok {
		v.SetVPos(a.vpos.value)
	}
	if a.h.ok {
		v.SetScroll(a.h.value)
	}
	if a.zoom.ok {
		v.SetZoom(a.zoom.value)
	}
	if a.sel0.ok {
		v.SetSel0(a.sel0.value)
	}
	if a.sel1.ok {
		v.SetSel1(a.sel1.value)
	}
}
