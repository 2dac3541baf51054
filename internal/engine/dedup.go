package engine

import (
	"time"

	"github.com/MeKo-Tech/scanbridge/internal/barcode"
	"github.com/gammazero/deque"
)

// maxRemembered bounds the dedup window regardless of its duration.
const maxRemembered = 256

type sighting struct {
	key string
	at  time.Time
}

// dedupWindow remembers recently reported codes, oldest first.
type dedupWindow struct {
	seen deque.Deque[sighting]
}

func dedupKey(r barcode.Result) string {
	return r.Type.String() + "\x00" + r.Text
}

// admit reports whether r may be reported at now and records it if so.
// A zero window disables suppression.
func (w *dedupWindow) admit(r barcode.Result, now time.Time, window time.Duration) bool {
	if window <= 0 {
		return true
	}
	for w.seen.Len() > 0 && now.Sub(w.seen.Front().at) >= window {
		w.seen.PopFront()
	}
	key := dedupKey(r)
	for i := 0; i < w.seen.Len(); i++ {
		if w.seen.At(i).key == key {
			return false
		}
	}
	w.seen.PushBack(sighting{key: key, at: now})
	if w.seen.Len() > maxRemembered {
		w.seen.PopFront()
	}
	return true
}
