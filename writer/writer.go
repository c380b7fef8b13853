// Package writer saves run summaries as indented JSON, optionally gzipped.
package writer

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"io"
	"log"
	"os"
	"path/filepath"
)

type Config struct {
	Path             string // output path; if empty, write to stdout
	CompressionLevel int    // gzip level used when Path ends in .gz
	Log              bool   // if true, logging is enabled
}

type Writer struct {
	Config
	enc  *json.Encoder
	bfw  *bufio.Writer
	gzw  *gzip.Writer
	file *os.File
}

func Open(cfg Config) (w *Writer, err error) {
	w = &Writer{Config: cfg}

	var out io.Writer
	if cfg.Path != "" {
		if w.Log {
			log.Printf("writer opening output file %s", cfg.Path)
		}
		if w.file, err = os.Create(cfg.Path); err != nil {
			w = nil
			return
		}
		w.bfw = bufio.NewWriter(w.file)
		out = w.bfw
	} else {
		if w.Log {
			log.Printf("writer using stdout")
		}
		w.bfw = bufio.NewWriter(os.Stdout)
		out = w.bfw
	}

	if filepath.Ext(cfg.Path) == ".gz" {
		if w.gzw, err = gzip.NewWriterLevel(out, cfg.CompressionLevel); err != nil {
			w = nil
			return
		}
		out = w.gzw
	}

	w.enc = json.NewEncoder(out)
	w.enc.SetIndent("", "\t")

	return
}

func (w *Writer) Write(v any) error {
	return w.enc.Encode(v)
}

func (w *Writer) Close() (err error) {
	if w.gzw != nil {
		if err = w.gzw.Close(); err != nil {
			return
		}
	}
	if err = w.bfw.Flush(); err != nil {
		return
	}
	if w.file != nil {
		err = w.file.Close()
	}
	return
}
