package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconBook     = ""
	IconComment  = ""
	IconMenu     = ""
	IconTrash    = ""
	IconDownload = ""
	IconHome     = ""
	IconClose    = ""
	IconReply    = ""
)

// Notification icons, one per kind.
var (
	IconNotifySuccess = ""
	IconNotifyError   = ""
	IconNotifyWarning = ""
	IconNotifyInfo    = ""
)

// KindIcon returns the icon of a notification kind name.
func KindIcon(kind string) string {
	switch kind {
	case "success":
		return IconNotifySuccess
	case "error":
		return IconNotifyError
	case "warning":
		return IconNotifyWarning
	default:
		return IconNotifyInfo
	}
}
