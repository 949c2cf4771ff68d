package model

import "slices"

// Region tags records with the campus they belong to
type Region string

const (
	RegionAll        Region = "전체"
	RegionDaejeon    Region = "대전"
	RegionSeosan     Region = "서산"
	RegionAsan       Region = "아산"
	RegionJeollaJeju Region = "전라제주"
)

// NoticeRegions are selectable for notices; 전체 addresses every campus
var NoticeRegions = []Region{RegionAll, RegionDaejeon, RegionSeosan, RegionAsan, RegionJeollaJeju}

// DownloadRegions are selectable for class materials
var DownloadRegions = []Region{RegionDaejeon, RegionSeosan, RegionAsan, RegionJeollaJeju}

// UploadType distinguishes survey links from file-submission links
type UploadType string

const (
	UploadSurvey UploadType = "survey"
	UploadFile   UploadType = "file"
)

var UploadTypes = []UploadType{UploadSurvey, UploadFile}

// Label returns the Korean label shown on the card badge
func (t UploadType) Label() string {
	switch t {
	case UploadSurvey:
		return "설문"
	case UploadFile:
		return "파일"
	default:
		return string(t)
	}
}

// Category is the subject area of a class material
type Category string

var Categories = []Category{"공통", "기후환경", "문화예술", "사회정서", "창의과학", "체육"}

// MaterialType is the kind of class material
type MaterialType string

var MaterialTypes = []MaterialType{"교안", "활동지", "영상"}

func validRegion(r Region, allowed []Region) bool {
	return slices.Contains(allowed, r)
}
