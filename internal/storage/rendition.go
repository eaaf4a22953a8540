package storage

import "fmt"

// Renditions served for video assets.
var (
	ThumbnailRendition = Transformation{Params: "w_520,h_140,c_fill,g_auto,q_auto", Format: "jpg"}
	PreviewRendition   = Transformation{Params: "w_520,h_140,e_preview:duration_15s:max_seg_9:min_seg_dur_1", Format: "mp4"}
	StreamRendition    = Transformation{Params: "w_1920,h_1080", Format: "mp4"}
)

// SocialRendition crops an image asset to the given social preset size.
func SocialRendition(width, height int) Transformation {
	return Transformation{
		Params: fmt.Sprintf("w_%d,h_%d,c_fill,g_auto", width, height),
		Format: "png",
	}
}
