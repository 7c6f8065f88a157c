package page

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jgivc/mediafetch/internal/adapter/mdadapter"
	"github.com/spf13/afero"
)

const (
	serviceName = "page"

	defaultTitle = "mediafetch"
)

//go:embed notice.md
var defaultNotice []byte

type MarkdownRenderer interface {
	Render(src []byte) (*mdadapter.Notice, error)
}

type TemplateRenderer interface {
	Parse(title, noticeHTML string) (string, error)
}

type pageService struct {
	fs         afero.Fs
	noticeFile string
	md         MarkdownRenderer
	tpl        TemplateRenderer

	once    sync.Once
	content string
	err     error

	log *slog.Logger
}

func NewPageService(noticeFile string, md MarkdownRenderer, tpl TemplateRenderer, log *slog.Logger) *pageService {
	return NewPageServiceWithFS(afero.NewOsFs(), noticeFile, md, tpl, log)
}

func NewPageServiceWithFS(fs afero.Fs, noticeFile string, md MarkdownRenderer, tpl TemplateRenderer, log *slog.Logger) *pageService {
	return &pageService{
		fs:         fs,
		noticeFile: noticeFile,
		md:         md,
		tpl:        tpl,
		log:        log.With(slog.String("service", serviceName)),
	}
}

// GetPage returns the index page. It is built on first use and kept.
func (p *pageService) GetPage(ctx context.Context) (string, error) {
	p.once.Do(func() {
		p.content, p.err = p.build()
		if p.err != nil {
			p.log.Error("Cannot build page", slog.Any("error", p.err))
		}
	})

	return p.content, p.err
}

func (p *pageService) build() (string, error) {
	src := defaultNotice

	if p.noticeFile != "" {
		data, err := afero.ReadFile(p.fs, p.noticeFile)
		if err != nil {
			return "", fmt.Errorf("cannot read notice file: %w", err)
		}

		src = data
	}

	notice, err := p.md.Render(src)
	if err != nil {
		return "", fmt.Errorf("cannot render notice: %w", err)
	}

	title := notice.Frontmatter.Title
	if title == "" {
		title = defaultTitle
	}

	return p.tpl.Parse(title, notice.HTML)
}
