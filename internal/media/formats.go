package media

import (
	"path/filepath"
	"strings"
)

var supportedVideoExtensions = map[string]bool{
	".mp4": true, ".mkv": true, ".webm": true, ".avi": true, ".mov": true,
	".flv": true, ".wmv": true, ".mpg": true, ".mpeg": true, ".m4v": true,
	".3gp": true, ".ogg": true, ".mxf": true, ".ts": true, ".vob": true,
	".m2ts": true, ".mts": true, ".asf": true, ".rm": true, ".rmvb": true,
	".divx": true, ".dv": true, ".f4v": true, ".f4p": true, ".f4a": true,
	".f4b": true, ".hevc": true,
}

var supportedAudioExtensions = map[string]bool{
	".aac": true, ".ac3": true, ".aiff": true, ".alac": true, ".amr": true,
	".ape": true, ".au": true, ".dts": true, ".flac": true, ".m4a": true,
	".m4b": true, ".mka": true, ".mlp": true, ".mp3": true, ".oga": true,
	".opus": true, ".ra": true, ".tak": true, ".truehd": true, ".tta": true,
	".voc": true, ".wav": true, ".wma": true, ".wv": true,
}

func IsSupportedVideo(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return supportedVideoExtensions[ext]
}

func IsSupportedAudio(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	// .ogg is claimed by the video table first, same as the original sets
	return supportedAudioExtensions[ext]
}
