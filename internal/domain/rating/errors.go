package rating

import "errors"

// Rating ドメインのエラー定義
var (
	ErrRatingNotFound      = errors.New("評価が見つかりません")
	ErrEventIDRequired     = errors.New("イベントIDは必須です")
	ErrPerformerIDRequired = errors.New("出演者IDは必須です")
	ErrRaterIDRequired     = errors.New("評価者IDは必須です")
	ErrSelfRating          = errors.New("自分自身を評価することはできません")
	ErrInvalidScore        = errors.New("評価は1〜5の整数で指定してください")
	ErrDuplicateRating     = errors.New("このイベントへの評価は既に登録されています")
	ErrEventNotConcluded   = errors.New("イベントが終了するまで評価できません")
	ErrNotParticipant      = errors.New("イベントの参加者ではありません")
	ErrNotRater            = errors.New("評価の登録者ではありません")
)
