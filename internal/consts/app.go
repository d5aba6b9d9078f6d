package consts

const (
	ApplicationName    = "PocketPic"
	ApplicationVersion = "0.3.1"
)
