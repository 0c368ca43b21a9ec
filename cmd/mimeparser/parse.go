package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zacek/mail-mime-parser/config"
	applog "github.com/zacek/mail-mime-parser/log"
	"github.com/zacek/mail-mime-parser/mime"

	// Side-effect import: installs golang.org/x/net/html/charset as the
	// default body-charset backend. Swap for mime/charset/iconv to use
	// GNU iconv instead.
	_ "github.com/zacek/mail-mime-parser/mime/charset/xtext"
)

var (
	configPath string
	extractDir string
	noTree     bool

	mainlog applog.Logger

	parseCmd = &cobra.Command{
		Use:   "parse [file]",
		Short: "parse a message from a file (or stdin) and print its part tree",
		Args:  cobra.MaximumNArgs(1),
		Run:   runParse,
	}
)

func init() {
	var err error
	if mainlog, err = applog.GetLogger(applog.OutputStderr.String()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	parseCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to a JSON config file")
	parseCmd.PersistentFlags().StringVarP(&extractDir, "extract", "x", "",
		"directory to extract attachments into")
	parseCmd.PersistentFlags().BoolVar(&noTree, "no-tree", false,
		"don't print the part tree")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configPath)
	if err != nil {
		mainlog.WithError(err).Error("failed to load config")
		os.Exit(1)
	}
	if mainlog, err = applog.GetLogger(cfg.LogFile); err != nil {
		mainlog.WithError(err).Error("failed to open log destination")
		os.Exit(1)
	}
	mainlog.SetLevel(cfg.LogLevel)

	var r io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			mainlog.WithError(err).Errorf("failed to open %s", args[0])
			os.Exit(1)
		}
		defer f.Close()
		r = f
	}

	parser := mime.NewParser(cfg.Mime)
	parser.Events().Subscribe(mime.EventBoundaryMalformed, func(p *mime.Part) {
		mainlog.WithPart(p.NodePath()).Warn("declared multipart boundary was never found")
	})
	parser.Events().Subscribe(mime.EventMessageTruncated, func(p *mime.Part) {
		mainlog.WithPart(p.NodePath()).Warn("message ended before its terminator")
	})

	root, err := parser.Parse(r)
	if err != nil {
		mainlog.WithError(err).Error("parse failed")
		os.Exit(1)
	}

	if !noTree {
		printTree(root, 0)
	}
	if extractDir != "" {
		if err := extractAttachments(root, extractDir); err != nil {
			mainlog.WithError(err).Error("extracting attachments failed")
			os.Exit(1)
		}
	}
}

func printTree(p *mime.Part, depth int) {
	fmt.Printf("%s[%s] %s (%s)\n", strings.Repeat("  ", depth), p.NodePath(), p.ContentType(), p.Kind())
	if err := p.Drain(); err != nil {
		mainlog.WithPart(p.NodePath()).WithError(err).Warn("could not fully expand")
	}
	for i := 0; ; i++ {
		child := p.Child(i)
		if child == nil {
			break
		}
		printTree(child, depth+1)
	}
}

func extractAttachments(root *mime.Part, dir string) error {
	attachments := root.Attachments()
	if len(attachments) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, att := range attachments {
		name := att.FileName()
		if name == "" {
			name = "part-" + att.NodePath()
		}
		content, err := att.RawContent()
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, filepath.Base(name)), content, 0o644); err != nil {
			return err
		}
		mainlog.WithPart(att.NodePath()).Infof("extracted %s", name)
	}
	return nil
}
