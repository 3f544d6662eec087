package errors

// エラーコード定数定義
// 形式: CATEGORY_SPECIFIC_DETAIL
// フロントエンドはこのコードでメッセージをマッピングする

const (
	// ==================== 認証 (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // ログイン必要
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // パスコード不一致
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // トークン期限切れ
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // 不正なトークン

	// ==================== 検証 (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // 不正な入力
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // 不正な ID
	ValidationRequired     = "VALIDATION_REQUIRED"      // 必須項目

	// ==================== メニュー (MENU_) ====================
	MenuItemNotFound   = "MENU_ITEM_NOT_FOUND"   // 商品なし
	MenuItemSoldOut    = "MENU_ITEM_SOLD_OUT"    // 品切れ
	MenuCategoryAbsent = "MENU_CATEGORY_ABSENT"  // カテゴリなし

	// ==================== テーブル (TABLE_) ====================
	TableNotFound      = "TABLE_NOT_FOUND"       // テーブルなし
	TableCartEmpty     = "TABLE_CART_EMPTY"      // カートが空
	TableNothingToPay  = "TABLE_NOTHING_TO_PAY"  // 会計対象なし
	TableSubmitBusy    = "TABLE_SUBMIT_BUSY"     // 注文送信処理中

	// ==================== 注文 (ORDER_) ====================
	OrderNotFound          = "ORDER_NOT_FOUND"           // 注文なし
	OrderInvalidStatus     = "ORDER_INVALID_STATUS"      // 不正なステータス
	OrderInvalidTransition = "ORDER_INVALID_TRANSITION"  // 許可されない遷移

	// ==================== キッチン (KITCHEN_) ====================
	KitchenBoardUnavailable = "KITCHEN_BOARD_UNAVAILABLE" // ボード取得失敗

	// ==================== アップロード (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // 不正なファイル形式
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"    // ファイルが大きすぎる
	UploadFailed          = "UPLOAD_FAILED"            // アップロード失敗

	// ==================== 内部エラー (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // サーバーエラー
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB エラー
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"   // 設定エラー
)
