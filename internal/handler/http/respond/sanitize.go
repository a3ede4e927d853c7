package respond

import (
	"regexp"
)

var (
	// Radarr の API キー（クエリパラメータ apiKey= / api_key=）
	apiKeyQueryPattern = regexp.MustCompile(`(?i)(api_?key=)[^&\s"']+`)
	// X-Api-Key ヘッダーがエラーに含まれる場合
	apiKeyHeaderPattern = regexp.MustCompile(`(?i)(x-api-key:\s*)\S+`)

	// Discord Webhook のトークン（/api/webhooks/{id}/{token}）
	// 注意: マスク済みの **** にはマッチしない
	webhookTokenPattern = regexp.MustCompile(`(/api/webhooks/[0-9]+/)[A-Za-z0-9_\-.]+`)

	// URL 内の認証情報（user:password@host）
	userInfoPasswordPattern = regexp.MustCompile(`://([^:/\s]+):([^@\s/]+)@`)
)

// SanitizeError は機密情報をマスクしたエラーメッセージを返す
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeString(err.Error())
}

// SanitizeString は文字列中の API キー・Webhook トークン・パスワードをマスクする
func SanitizeString(msg string) string {
	// API キーのマスク
	msg = apiKeyQueryPattern.ReplaceAllString(msg, "${1}****")
	msg = apiKeyHeaderPattern.ReplaceAllString(msg, "${1}****")

	// Webhook トークンのマスク
	msg = webhookTokenPattern.ReplaceAllString(msg, "${1}****")

	// URL パスワードのマスク
	msg = userInfoPasswordPattern.ReplaceAllString(msg, "://$1:****@")

	return msg
}
