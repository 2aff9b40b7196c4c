package quote

import "errors"

// Quote ドメインのエラー定義
var (
	ErrRequestNotFound     = errors.New("見積依頼が見つかりません")
	ErrProposalNotFound    = errors.New("提案が見つかりません")
	ErrBookingNotFound     = errors.New("予約が見つかりません")
	ErrOrganizerRequired   = errors.New("主催者IDは必須です")
	ErrPerformerRequired   = errors.New("出演者IDは必須です")
	ErrEventTypeRequired   = errors.New("イベント種別は必須です")
	ErrInvalidDuration     = errors.New("演奏時間は1分以上である必要があります")
	ErrDateInPast          = errors.New("過去の日付は指定できません")
	ErrRequestIDRequired   = errors.New("見積依頼IDは必須です")
	ErrInvalidFee          = errors.New("提案料金は0以上である必要があります")
	ErrValidityInPast      = errors.New("有効期限が過去です")
	ErrRequestNotOpen      = errors.New("見積依頼は提案を受け付けていません")
	ErrRequestNotResponded = errors.New("承諾できる提案がありません")
	ErrRequestNotReserved  = errors.New("見積依頼は reserved 状態ではありません")
	ErrRequestCancelled    = errors.New("見積依頼は既にキャンセルされています")
	ErrCancelViaBooking    = errors.New("予約済みの依頼は予約側をキャンセルしてください")
	ErrProposalNotSent     = errors.New("提案は sent 状態ではありません")
	ErrProposalExpired     = errors.New("提案の有効期限が切れています")
	ErrProposalMismatch    = errors.New("提案はこの見積依頼のものではありません")
	ErrBookingNotReserved  = errors.New("予約は reserved 状態ではありません")
	ErrBookingCancelled    = errors.New("予約は既にキャンセルされています")
	ErrBookingExists       = errors.New("キャンセルされていない予約が既に存在します")
	ErrNotOrganizer        = errors.New("見積依頼の主催者ではありません")
	ErrNotTargetPerformer  = errors.New("見積依頼の対象出演者ではありません")
	ErrNotParticipant      = errors.New("この予約の関係者ではありません")
)
