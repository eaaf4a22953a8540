package domain

// SocialFormat is an export preset for the social share image tool.
type SocialFormat struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// DefaultSocialFormat is preselected in the format picker.
const DefaultSocialFormat = "Instagram Square (1:1)"

// SocialFormats lists the presets in picker order.
var SocialFormats = []SocialFormat{
	{Name: "Instagram Square (1:1)", Width: 1080, Height: 1080},
	{Name: "Instagram Portrait (4:5)", Width: 1080, Height: 1350},
	{Name: "Instagram Story/Reel (9:16)", Width: 1080, Height: 1920},

	{Name: "Twitter/X Post (16:9)", Width: 1200, Height: 675},
	{Name: "Twitter/X Post (1:1)", Width: 1200, Height: 1200},
	{Name: "Twitter/X Header", Width: 1500, Height: 500},

	{Name: "Facebook Post (1.91:1)", Width: 1200, Height: 630},
	{Name: "Facebook Square (1:1)", Width: 1080, Height: 1080},
	{Name: "Facebook Cover", Width: 820, Height: 312},

	{Name: "LinkedIn Post (1.91:1)", Width: 1200, Height: 628},
	{Name: "LinkedIn Cover", Width: 1584, Height: 396},

	{Name: "YouTube Thumbnail", Width: 1280, Height: 720},
	{Name: "YouTube Channel Art", Width: 2560, Height: 1440},
}

// FindSocialFormat looks a preset up by its display name.
func FindSocialFormat(name string) (SocialFormat, bool) {
	for _, f := range SocialFormats {
		if f.Name == name {
			return f, true
		}
	}
	return SocialFormat{}, false
}
