package domain

const (
	SenderUser  = "USER"
	SenderAdmin = "ADMIN"
)

const (
	FileTypeImage    = "IMAGE"
	FileTypeVideo    = "VIDEO"
	FileTypeDocument = "DOCUMENT"
)

const (
	DefaultAdminID       = "1"
	DefaultNickname      = "在线客服"
	DefaultAvatar        = "/default-avatar.png"
	DefaultLinkText      = "下载APP防止失联"
	DefaultCategory      = "general"
	DefaultWelcomeImage  = "/welcome-image.jpg"
	DefaultWelcomeTitle  = "欢迎使用在线客服"
	DefaultWelcomeDesc   = "专业的客服团队为您提供7×24小时服务"
	DefaultButtonText    = "开始咨询"
	DefaultRedirectDelay = 3
	DefaultLinkName      = "默认客服"
	DefaultLinkURL       = "/chat/default"
)

// AllowedUploadTypes maps accepted MIME types to their canonical form.
// Browsers report .mov and .avi under several names.
var AllowedUploadTypes = map[string]string{
	"image/jpeg":      "image/jpeg",
	"image/png":       "image/png",
	"image/gif":       "image/gif",
	"image/webp":      "image/webp",
	"video/mp4":       "video/mp4",
	"video/quicktime": "video/quicktime",
	"video/mov":       "video/quicktime",
	"video/x-msvideo": "video/x-msvideo",
	"video/avi":       "video/x-msvideo",
	"video/msvideo":   "video/x-msvideo",
}
