package model

import (
	"slices"
	"strings"
)

// Notice is an announcement shown in the app, optionally with images
type Notice struct {
	ID      int64  `json:"id,omitempty"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Region  Region `json:"region"`
}

func (n Notice) GetID() int64 { return n.ID }

// Normalize trims input and applies the form defaults
func (n Notice) Normalize() Notice {
	n.Title = strings.TrimSpace(n.Title)
	n.Content = strings.TrimSpace(n.Content)
	if n.Region == "" {
		n.Region = RegionAll
	}
	return n
}

func (n Notice) Validate() error {
	var v validator
	v.required("title", n.Title)
	v.required("content", n.Content)
	v.oneOf("region", validRegion(n.Region, NoticeRegions))
	return v.result("제목과 내용을 입력하세요.")
}

// NoticeImage is an image attached to a notice
type NoticeImage struct {
	ID       int64  `json:"id"`
	NoticeID int64  `json:"noticeId,omitempty"`
	URL      string `json:"url"`
	Filename string `json:"filename,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

func (i NoticeImage) GetID() int64 { return i.ID }

func (i NoticeImage) Validate() error {
	var v validator
	v.required("url", i.URL)
	return v.result("이미지 주소가 없습니다.")
}

// Upload is a document-submission link (survey form or file drop)
type Upload struct {
	ID     int64      `json:"id,omitempty"`
	Title  string     `json:"title"`
	Detail string     `json:"detail"`
	Type   UploadType `json:"type"`
	Link   string     `json:"link"`
}

func (u Upload) GetID() int64 { return u.ID }

func (u Upload) Normalize() Upload {
	u.Title = strings.TrimSpace(u.Title)
	u.Detail = strings.TrimSpace(u.Detail)
	u.Link = strings.TrimSpace(u.Link)
	if u.Type == "" {
		u.Type = UploadSurvey
	}
	return u
}

func (u Upload) Validate() error {
	var v validator
	v.required("title", u.Title)
	v.required("detail", u.Detail)
	v.required("link", u.Link)
	v.oneOf("type", slices.Contains(UploadTypes, u.Type))
	return v.result("제목, 설명, 링크를 입력하세요.")
}

// Download is a downloadable class material
type Download struct {
	ID       int64        `json:"id,omitempty"`
	Title    string       `json:"title"`
	Region   Region       `json:"region"`
	Category Category     `json:"category"`
	Type     MaterialType `json:"type"`
	Link     string       `json:"link"`
}

func (d Download) GetID() int64 { return d.ID }

func (d Download) Normalize() Download {
	d.Title = strings.TrimSpace(d.Title)
	d.Link = strings.TrimSpace(d.Link)
	if d.Region == "" {
		d.Region = RegionDaejeon
	}
	if d.Category == "" {
		d.Category = Categories[0]
	}
	if d.Type == "" {
		d.Type = MaterialTypes[0]
	}
	return d
}

func (d Download) Validate() error {
	var v validator
	v.required("title", d.Title)
	v.required("link", d.Link)
	v.oneOf("region", validRegion(d.Region, DownloadRegions))
	v.oneOf("category", slices.Contains(Categories, d.Category))
	v.oneOf("type", slices.Contains(MaterialTypes, d.Type))
	return v.result("제목과 링크를 입력하세요.")
}
