package templates

//go:generate go tool templ generate

import (
	"strconv"

	"github.com/gbnam453/nalbom-admin/internal/model"
)

// Helper functions for admin templates

// RegionColor is the badge color of a region tag
func RegionColor(r model.Region) string {
	switch r {
	case model.RegionAll:
		return "gray"
	case model.RegionDaejeon:
		return "blue"
	case model.RegionSeosan:
		return "green"
	case model.RegionAsan:
		return "yellow"
	default:
		return "red"
	}
}

// UploadTypeColor is the badge color of an upload type
func UploadTypeColor(t model.UploadType) string {
	if t == model.UploadSurvey {
		return "blue"
	}
	return "green"
}

func NoticePath(id int64) string   { return "/notices/" + strconv.FormatInt(id, 10) }
func UploadPath(id int64) string   { return "/uploads/" + strconv.FormatInt(id, 10) }
func DownloadPath(id int64) string { return "/downloads/" + strconv.FormatInt(id, 10) }

func NoticeImagePath(noticeID, imageID int64) string {
	return NoticePath(noticeID) + "/images/" + strconv.FormatInt(imageID, 10)
}
