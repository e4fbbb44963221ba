package bmp

import "github.com/google/uuid"

// CodecFlags describe codec capabilities
type CodecFlags uint32

const (
	FlagEncoder CodecFlags = 1 << iota
	FlagDecoder
	FlagSupportBitmap
	FlagSupportVector
	FlagSeekableEncode
	FlagBlockingDecode
	FlagBuiltin
)

// CodecInfo static description of the codec for a host registry
type CodecInfo struct {
	Clsid             uuid.UUID
	FormatID          uuid.UUID
	CodecName         string
	FormatDescription string
	FilenameExtension string
	MimeType          string
	Flags             CodecFlags
	Version           int
}

var (
	bmpCodecClsid  = uuid.MustParse("557cf400-1a04-11d3-9a73-0000f81ef32e")
	bmpImageFormat = uuid.MustParse("b96b3cab-0728-11d3-9d7b-0000f81ef32e")
)

// Descriptor returns the codec description. Each call returns a fresh value.
func Descriptor() CodecInfo {
	return CodecInfo{
		Clsid:             bmpCodecClsid,
		FormatID:          bmpImageFormat,
		CodecName:         "Built-in BMP",
		FormatDescription: "BMP",
		FilenameExtension: "*.BMP;*.DIB;*.RLE",
		MimeType:          "image/bmp",
		Flags:             FlagEncoder | FlagDecoder | FlagSupportBitmap | FlagBuiltin,
		Version:           1,
	}
}
