package performer

import "errors"

// Performer ドメインのエラー定義
var (
	ErrPerformerNotFound     = errors.New("出演者が見つかりません")
	ErrPerformerNameRequired = errors.New("出演者名は必須です")
	ErrPerformerInactive     = errors.New("出演者はアクティブではありません")
)
