package portconf

// hpe5130Ports are the port areas of the HPE 5130 48 port front panel
// picture: odd ports on the upper row, even ports below.
func hpe5130Ports() map[int]Region {
	return map[int]Region{
		1:  {53, 54, 112, 102},
		2:  {53, 119, 112, 165},
		3:  {116, 54, 176, 102},
		4:  {116, 119, 176, 165},
		5:  {179, 54, 239, 102},
		6:  {179, 119, 239, 165},
		7:  {242, 54, 302, 102},
		8:  {242, 119, 302, 165},
		9:  {305, 54, 365, 102},
		10: {305, 119, 365, 165},
		11: {368, 54, 428, 102},
		12: {368, 119, 428, 165},
		13: {464, 54, 524, 102},
		14: {464, 119, 524, 165},
		15: {527, 54, 587, 102},
		16: {527, 119, 587, 165},
		17: {590, 54, 650, 102},
		18: {590, 119, 650, 165},
		19: {653, 54, 713, 102},
		20: {653, 119, 713, 165},
		21: {716, 54, 776, 102},
		22: {716, 119, 776, 165},
		23: {779, 54, 839, 102},
		24: {779, 119, 839, 165},
		25: {875, 54, 935, 102},
		26: {875, 119, 935, 165},
		27: {938, 54, 998, 102},
		28: {938, 119, 998, 165},
		29: {1001, 54, 1061, 102},
		30: {1001, 119, 1061, 165},
		31: {1064, 54, 1124, 102},
		32: {1064, 119, 1124, 165},
		33: {1127, 54, 1187, 102},
		34: {1127, 119, 1187, 165},
		35: {1190, 54, 1250, 102},
		36: {1190, 119, 1250, 165},
		37: {1286, 54, 1346, 102},
		38: {1286, 119, 1346, 165},
		39: {1349, 54, 1409, 102},
		40: {1349, 119, 1409, 165},
		41: {1412, 54, 1472, 102},
		42: {1412, 119, 1472, 165},
		43: {1475, 54, 1535, 102},
		44: {1475, 119, 1535, 165},
		45: {1538, 54, 1598, 102},
		46: {1538, 119, 1598, 165},
		47: {1601, 54, 1661, 102},
		48: {1601, 119, 1661, 165},
	}
}

// DefaultRadiusDivisor gives markers a sixth of the smallest port side.
const DefaultRadiusDivisor = 6

// Default returns the configuration for the HPE 5130 48 port switch.
func Default() *Config {
	return &Config{
		BaseImage: "HPE-5130-48-Port.png",
		Sentinel:  RGB(0x33, 0x33, 0x33),
		Ports:     hpe5130Ports(),
		VLANs: []VLAN{
			{ID: 298, Color: RGB(128, 0, 128)}, // purple
			{ID: 90, Color: RGB(255, 165, 0)},  // orange
			{ID: 192, Color: RGB(255, 0, 0)},
			{ID: 511, Color: RGB(255, 255, 0)},
			{ID: 1, Color: RGB(255, 255, 255)},
			{ID: 4095, Color: RGB(0, 191, 255), Patch: true},
		},
		Legend: Legend{
			BoxWidth:    100,
			BoxHeight:   20,
			Spacing:     10,
			BandHeight:  60,
			TopMargin:   10,
			BorderWidth: 2,
			Font:        "arial.ttf",
			FontSize:    14,
			PatchLabel:  "Patch",
			ShowSource:  true,
		},
		Status: Status{
			Color:         RGB(0, 255, 0),
			RadiusDivisor: DefaultRadiusDivisor,
		},
		Output: Output{
			Formats: []string{FormatPNG},
		},
	}
}
