package services

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image/color"
	"os"
	"strings"
	"unicode"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"golang.org/x/image/font"

	"github.com/yungbote/material-inventory-backend/internal/pkg/logger"
	"github.com/yungbote/material-inventory-backend/internal/storage"
)

const avatarSize = 256

// AvatarService renders an initials avatar for a new user and stores it
// alongside the material images.
type AvatarService interface {
	Generate(ctx context.Context, name string) (string, error)
}

type avatarService struct {
	log      *logger.Logger
	store    storage.ImageStore
	fontFace font.Face
	palette  []color.NRGBA
}

func NewAvatarService(store storage.ImageStore, fontPath string, baseLog *logger.Logger) (AvatarService, error) {
	serviceLog := baseLog.With("service", "AvatarService")

	raw, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("read avatar font: %w", err)
	}
	parsed, err := truetype.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse avatar font: %w", err)
	}
	face := truetype.NewFace(parsed, &truetype.Options{Size: 96})

	return &avatarService{
		log:      serviceLog,
		store:    store,
		fontFace: face,
		palette: []color.NRGBA{
			{R: 0x2F, G: 0x6F, B: 0xED, A: 0xFF},
			{R: 0xE8, G: 0x59, B: 0x3C, A: 0xFF},
			{R: 0x2E, G: 0x9E, B: 0x6B, A: 0xFF},
			{R: 0x8E, G: 0x44, B: 0xAD, A: 0xFF},
			{R: 0xD4, G: 0x88, B: 0x06, A: 0xFF},
			{R: 0x16, G: 0x7D, B: 0x8A, A: 0xFF},
		},
	}, nil
}

func (as *avatarService) Generate(ctx context.Context, name string) (string, error) {
	dc := gg.NewContext(avatarSize, avatarSize)

	dc.DrawCircle(avatarSize/2, avatarSize/2, avatarSize/2)
	dc.Clip()

	dc.SetColor(as.pickColor(name))
	dc.DrawRectangle(0, 0, avatarSize, avatarSize)
	dc.Fill()

	initials := computeInitials(name)
	dc.SetFontFace(as.fontFace)
	tw, th := dc.MeasureString(initials)
	dc.SetColor(color.White)
	dc.DrawString(initials, avatarSize/2-tw/2, avatarSize/2+th/2)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return "", fmt.Errorf("encode avatar png: %w", err)
	}

	key := fmt.Sprintf("avatars/%s.png", uuid.NewString())
	url, err := as.store.Save(ctx, key, "image/png", &buf, int64(buf.Len()))
	if err != nil {
		return "", fmt.Errorf("store avatar: %w", err)
	}
	return url, nil
}

func (as *avatarService) pickColor(name string) color.NRGBA {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(name))))
	return as.palette[int(h.Sum32())%len(as.palette)]
}

func computeInitials(name string) string {
	fields := strings.Fields(name)
	var b strings.Builder
	for i, f := range fields {
		if i == 2 {
			break
		}
		r := []rune(f)[0]
		b.WriteRune(unicode.ToUpper(r))
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}
