package event

import "errors"

// Event ドメインのエラー定義
var (
	ErrEventNotFound         = errors.New("イベントが見つかりません")
	ErrTitleRequired         = errors.New("イベント名は必須です")
	ErrCreatorRequired       = errors.New("作成者は必須です")
	ErrInvalidTimeFormat     = errors.New("時刻の形式が不正です（HH:MM）")
	ErrZeroDuration          = errors.New("開始時刻と終了時刻が同一です")
	ErrInvalidTimeRange      = errors.New("終了時刻は開始時刻より後である必要があります")
	ErrDateInPast            = errors.New("過去の日付は指定できません")
	ErrNotCreator            = errors.New("イベントの作成者ではありません")
	ErrNotInvited            = errors.New("このイベントに招待されていません")
	ErrInvalidResponse       = errors.New("回答は available または unavailable を指定してください")
	ErrEventAlreadyCancelled = errors.New("イベントは既にキャンセルされています")
	ErrEventClosed           = errors.New("イベントは終端状態のため変更できません")
	ErrInvitationNotFound    = errors.New("招待が見つかりません")
	ErrDuplicateInvitation   = errors.New("同じ出演者への招待が既に存在します")
)
