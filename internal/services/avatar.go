package services

import (
	"bytes"
	"fmt"
	"image/color"
	"math/rand"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	types "github.com/diperi/dugout-backend/internal/domain"
	"github.com/diperi/dugout-backend/internal/platform/logger"
)

// AvatarService renders a circular initials avatar for a profile. The PNG
// is stored on the user row; the profile-selection screen serves it
// directly.
type AvatarService interface {
	Generate(user *types.User) ([]byte, string, error)
	PickColor() string
}

type avatarService struct {
	log      *logger.Logger
	palette  []color.NRGBA
	hexes    []string
	fontFace font.Face
}

var defaultAvatarPalette = []string{
	"#E57373", "#64B5F6", "#FFD54F", "#81C784",
	"#4DB6AC", "#BA68C8", "#FF8A65", "#7986CB",
}

func NewAvatarService(log *logger.Logger) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	palette := make([]color.NRGBA, 0, len(defaultAvatarPalette))
	hexes := make([]string, 0, len(defaultAvatarPalette))
	for _, h := range defaultAvatarPalette {
		c, err := parseHexColor(h)
		if err != nil {
			return nil, fmt.Errorf("bad avatar palette entry %q: %w", h, err)
		}
		palette = append(palette, c)
		hexes = append(hexes, h)
	}

	// Initials need a TTF; without one the avatar is a plain colored disc.
	var face font.Face
	if fontPath := strings.TrimSpace(os.Getenv("AVATAR_FONT")); fontPath != "" {
		loaded, err := loadFontFace(fontPath, 206)
		if err != nil {
			return nil, fmt.Errorf("could not load avatar font: %w", err)
		}
		face = loaded
		serviceLog.Info("Loaded avatar font", "font", fontPath)
	} else {
		serviceLog.Warn("AVATAR_FONT not set, avatars will have no initials")
	}

	return &avatarService{
		log:      serviceLog,
		palette:  palette,
		hexes:    hexes,
		fontFace: face,
	}, nil
}

func (as *avatarService) PickColor() string {
	return as.hexes[rand.Intn(len(as.hexes))]
}

func (as *avatarService) Generate(user *types.User) ([]byte, string, error) {
	const size = 512

	hex := strings.TrimSpace(user.AvatarColor)
	if hex == "" {
		hex = as.PickColor()
	}
	bg, err := parseHexColor(hex)
	if err != nil {
		bg = as.palette[0]
		hex = as.hexes[0]
	}

	dc := gg.NewContext(size, size)

	dc.DrawCircle(size/2, size/2, size/2)
	dc.Clip()

	dc.SetRGBA255(int(bg.R), int(bg.G), int(bg.B), 255)
	dc.Clear()

	if as.fontFace != nil {
		dc.SetFontFace(as.fontFace)
		dc.SetRGB255(255, 255, 255)
		dc.DrawStringAnchored(initialsFor(user.Name), size/2, size/2, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, "", fmt.Errorf("encode avatar png: %w", err)
	}
	return buf.Bytes(), hex, nil
}

func initialsFor(name string) string {
	fields := strings.Fields(strings.TrimSpace(name))
	switch len(fields) {
	case 0:
		return "?"
	case 1:
		r := []rune(fields[0])
		return strings.ToUpper(string(r[0]))
	default:
		first := []rune(fields[0])
		last := []rune(fields[len(fields)-1])
		return strings.ToUpper(string(first[0]) + string(last[0]))
	}
}

func parseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("expected 6 hex digits, got %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{}, err
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

func loadFontFace(path string, points float64) (font.Face, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	parsed, err := truetype.Parse(raw)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(parsed, &truetype.Options{Size: points}), nil
}
