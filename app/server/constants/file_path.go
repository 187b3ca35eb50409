package constants

// 上传文件
const (
	UploadDirDefault          = "uploads"
	UploadPublicPrefixDefault = "/uploads"
	UploadFormField           = "file"
	UploadMaxSize             = 10 << 20 // 10MB
	UploadBodyLimit           = "11M"    // 留出 multipart 的开销
)

// 图片处理
const (
	ImageMaxWidthDefault  = 800
	ImageMaxHeightDefault = 800
	ImageQualityDefault   = 85
	ImageExtension        = ".jpg"
	ImageMaxPixels        = 40_000_000 // 解码前按声明的尺寸拒绝过大的图片
)
