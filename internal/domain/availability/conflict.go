package availability

import (
	"sort"
	"time"

	"github.com/sanosuguru/go-gig-booking/internal/domain/event"
)

// EventBuffer はイベント境界に適用される前後の余裕時間
// バッファはイベント側にのみ適用され、空き枠側には適用されない
const EventBuffer = 40 * time.Minute

// BufferedRange はイベントのバッファ付き区間を返す
func BufferedRange(e *event.Event) (time.Time, time.Time) {
	return e.StartAt.Add(-EventBuffer), e.EndAt.Add(EventBuffer)
}

// ConflictsRange は区間 [start, end) がイベントのバッファ付き区間と
// 重なるかを返す（半開区間の重なり判定）
// proposed / confirmed 以外のイベントは競合しない
func ConflictsRange(start, end time.Time, e *event.Event) bool {
	if !e.IsActive() {
		return false
	}
	bufStart, bufEnd := BufferedRange(e)
	return bufStart.Before(end) && bufEnd.After(start)
}

// Conflicts は空き枠とイベントが競合するかを返す
func Conflicts(w *Window, e *event.Event) bool {
	return ConflictsRange(w.StartAt, w.EndAt, e)
}

// ConflictingEvents は空き枠と競合するイベントのみを抽出する
func ConflictingEvents(w *Window, events []*event.Event) []*event.Event {
	var conflicting []*event.Event
	for _, e := range events {
		if Conflicts(w, e) {
			conflicting = append(conflicting, e)
		}
	}
	return conflicting
}

// SplitWindow は競合イベントを避けた子枠の集合を生成する
// アルゴリズム: イベントをバッファ付き開始時刻でソートし、カーソルを
// 枠の開始から進める。各イベントについて、バッファ付き開始がカーソルより
// 後なら [カーソル, min(バッファ付き開始, 枠の終了)) の子枠を生成し、
// カーソルを max(カーソル, バッファ付き終了) に進める。最後にカーソルが
// 枠の終了より前なら残りの子枠を生成する。ゼロ長の子枠は破棄される。
// 親枠の非アクティブ化は呼び出し側が行う
func SplitWindow(w *Window, events []*event.Event) []*Window {
	sorted := make([]*event.Event, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		si, _ := BufferedRange(sorted[i])
		sj, _ := BufferedRange(sorted[j])
		return si.Before(sj)
	})

	children := make([]*Window, 0, len(sorted)+1)
	cursor := w.StartAt
	for _, e := range sorted {
		bufStart, bufEnd := BufferedRange(e)
		if bufStart.After(cursor) {
			end := bufStart
			if w.EndAt.Before(end) {
				end = w.EndAt
			}
			if end.After(cursor) {
				children = append(children, w.child(cursor, end))
			}
		}
		if bufEnd.After(cursor) {
			cursor = bufEnd
		}
	}
	if cursor.Before(w.EndAt) {
		children = append(children, w.child(cursor, w.EndAt))
	}
	return children
}
