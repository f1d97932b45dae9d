package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tidymark/internal/domain"
	"tidymark/internal/exporter"
	"tidymark/internal/httpserver/deps"
	"tidymark/internal/importer"
	"tidymark/internal/logger"
	"tidymark/internal/utils"
)

type treeResponse struct {
	Roots     []*domain.BookmarkNode `json:"roots"`
	Bookmarks int                    `json:"bookmarks"`
	Folders   int                    `json:"folders"`
}

// Tree returns the currently persisted bookmark tree
func Tree(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roots, err := d.Store.LoadTree(r.Context())
		if err != nil {
			d.Logger.Error("failed to load tree", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load tree")
			return
		}

		bookmarks, folders := countNodes(roots)
		writeJSON(w, http.StatusOK, treeResponse{
			Roots:     roots,
			Bookmarks: bookmarks,
			Folders:   folders,
		})
	}
}

type importResponse struct {
	Bookmarks int `json:"bookmarks"`
	Folders   int `json:"folders"`
}

// Import parses an uploaded Netscape bookmark HTML file and replaces
// the persisted tree.
func Import(d deps.Deps) http.HandlerFunc {
	maxSize := d.MaxImportSize
	if maxSize <= 0 {
		maxSize = 32 << 20
	}

	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxSize)

		// Accept either a multipart upload ("file" field) or the raw
		// HTML document as the request body.
		var body io.Reader = r.Body
		if ct := r.Header.Get("Content-Type"); strings.HasPrefix(ct, "multipart/form-data") {
			file, _, err := r.FormFile("file")
			if err != nil {
				writeError(w, http.StatusBadRequest, "multipart upload missing \"file\" field")
				return
			}
			defer utils.Close(file)
			body = file
		}

		roots, err := importer.ParseHTML(body)
		if err != nil {
			d.Logger.Warn("bookmark import failed", logger.Error(err))
			writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse bookmarks: %v", err))
			return
		}
		if len(roots) == 0 {
			writeError(w, http.StatusBadRequest, "no bookmarks found in upload")
			return
		}

		if err := d.Store.SaveTree(r.Context(), roots); err != nil {
			d.Logger.Error("failed to persist imported tree", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to save tree")
			return
		}

		bookmarks, folders := countNodes(roots)
		d.Logger.Info("bookmark tree imported",
			logger.Int("bookmarks", bookmarks),
			logger.Int("folders", folders))

		writeJSON(w, http.StatusCreated, importResponse{
			Bookmarks: bookmarks,
			Folders:   folders,
		})
	}
}

// Export serializes the persisted tree back to Netscape bookmark HTML
func Export(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roots, err := d.Store.LoadTree(r.Context())
		if err != nil {
			d.Logger.Error("failed to load tree", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load tree")
			return
		}
		if len(roots) == 0 {
			writeError(w, http.StatusNotFound, "no bookmark tree imported")
			return
		}

		filename := fmt.Sprintf("bookmarks-export-%s.html", time.Now().Format("2006-01-02"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		if _, err := w.Write([]byte(exporter.ExportHTML(roots))); err != nil {
			d.Logger.Debug("failed to write export", logger.Error(err))
		}
	}
}

// TreeDelete drops the persisted tree. Plans survive; applying one
// afterwards needs a fresh import.
func TreeDelete(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Store.DeleteTree(r.Context()); err != nil {
			d.Logger.Error("failed to delete tree", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to delete tree")
			return
		}
		d.Logger.Info("bookmark tree deleted")
		w.WriteHeader(http.StatusNoContent)
	}
}

func countNodes(roots []*domain.BookmarkNode) (bookmarks, folders int) {
	var walk func(nodes []*domain.BookmarkNode)
	walk = func(nodes []*domain.BookmarkNode) {
		for _, n := range nodes {
			if n.IsFolder() {
				folders++
				walk(n.Children)
				continue
			}
			bookmarks++
		}
	}
	walk(roots)
	return bookmarks, folders
}
