package availability

import "errors"

// Availability ドメインのエラー定義
var (
	ErrWindowNotFound    = errors.New("空き枠が見つかりません")
	ErrPerformerRequired = errors.New("出演者IDは必須です")
	ErrInvalidTimeRange  = errors.New("終了時刻は開始時刻より後である必要があります")
	ErrDateInPast        = errors.New("過去の日付は指定できません")
	ErrInvalidVisibility = errors.New("公開範囲は public または private を指定してください")
	ErrNotOwner          = errors.New("空き枠の所有者ではありません")
	ErrWindowInactive    = errors.New("空き枠は既に非アクティブです")
)
