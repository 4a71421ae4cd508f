package models

import (
	"path/filepath"
	"strings"
	"time"
)

// Region is the simulated data-residency region of a file.
type Region int

const (
	RegionAsia Region = iota
	RegionEurope
	RegionAmerica
	RegionGlobal
)

var Regions = []Region{RegionAsia, RegionEurope, RegionAmerica, RegionGlobal}

var regionNames = map[Region]string{
	RegionAsia:    "Asia",
	RegionEurope:  "Europe",
	RegionAmerica: "America",
	RegionGlobal:  "Global",
}

func (r Region) String() string {
	if s, ok := regionNames[r]; ok {
		return s
	}
	return "Unknown"
}

func (r Region) Valid() bool {
	_, ok := regionNames[r]
	return ok
}

// ParseRegion maps a case-insensitive region name to its value.
func ParseRegion(s string) (Region, bool) {
	for r, name := range regionNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return r, true
		}
	}
	return RegionGlobal, false
}

// FileType is the coarse content category derived from a file name.
type FileType int

const (
	FileTypeDocument FileType = iota
	FileTypeImage
	FileTypeVideo
	FileTypeAudio
	FileTypeOther
)

var FileTypes = []FileType{FileTypeDocument, FileTypeImage, FileTypeVideo, FileTypeAudio, FileTypeOther}

var fileTypeNames = map[FileType]string{
	FileTypeDocument: "Document",
	FileTypeImage:    "Image",
	FileTypeVideo:    "Video",
	FileTypeAudio:    "Audio",
	FileTypeOther:    "Other",
}

var extensionTypes = map[string]FileType{
	"txt": FileTypeDocument, "pdf": FileTypeDocument, "doc": FileTypeDocument,
	"docx": FileTypeDocument, "xlsx": FileTypeDocument, "pptx": FileTypeDocument,
	"jpg": FileTypeImage, "jpeg": FileTypeImage, "png": FileTypeImage,
	"gif": FileTypeImage, "bmp": FileTypeImage,
	"mp4": FileTypeVideo, "avi": FileTypeVideo, "mov": FileTypeVideo,
	"wmv": FileTypeVideo, "mkv": FileTypeVideo,
	"mp3": FileTypeAudio, "wav": FileTypeAudio, "flac": FileTypeAudio, "aac": FileTypeAudio,
}

func (t FileType) String() string {
	if s, ok := fileTypeNames[t]; ok {
		return s
	}
	return "Unknown"
}

func (t FileType) Valid() bool {
	_, ok := fileTypeNames[t]
	return ok
}

// DetectFileType infers the type from the extension of name. Missing or
// unknown extensions give FileTypeOther.
func DetectFileType(name string) FileType {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if t, ok := extensionTypes[strings.ToLower(ext)]; ok {
		return t
	}
	return FileTypeOther
}

// FileRecord describes one stored object. Content bytes are not tracked, only
// the size.
type FileRecord struct {
	ID              string
	Name            string
	Owner           string
	Region          Region
	Type            FileType
	UploadedAt      time.Time
	SizeMB          float64
	Description     string
	Public          bool
	EncryptedAtRest bool // simulated
}

// TotalSizeMB sums the sizes of records.
func TotalSizeMB(records []FileRecord) float64 {
	var total float64
	for _, r := range records {
		total += r.SizeMB
	}
	return total
}
