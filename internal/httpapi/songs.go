package httpapi

import (
	"errors"
	"net/http"

	"songshelf/internal/app/songs"
	"songshelf/internal/models"
)

// maxUploadRequestBytes leaves room for multipart framing around the largest accepted file.
const maxUploadRequestBytes = songs.MaxFileSize + 1<<20

// multipartMemory is how much of the form is buffered in memory before spilling to disk.
const multipartMemory = 32 << 20

type songsResponse struct {
	Message string        `json:"message,omitempty"`
	Count   int           `json:"count"`
	Data    []models.Song `json:"data"`
}

type deleteSongsResponse struct {
	Message string `json:"message"`
	Count   int64  `json:"count"`
}

// handleUploadSongs replaces the song list with the rows of the uploaded CSV file.
func (s *Server) handleUploadSongs(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadRequestBytes)

	upload, err := readUploadedFile(r)
	if err != nil {
		writeServiceError(w, err, "Failed to process uploaded file")
		return
	}
	if closer, ok := upload.Content.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	uploaded, err := s.songs.Upload(r.Context(), upload)
	if err != nil {
		writeServiceError(w, err, "Failed to save songs")
		return
	}

	writeJSON(w, http.StatusCreated, songsResponse{
		Message: "CSV file processed successfully",
		Count:   len(uploaded),
		Data:    uploaded,
	})
}

// handleListSongs returns every song ordered by band.
func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	order, err := models.ParseSortOrder(r.URL.Query().Get("order"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "order must be asc or desc"})
		return
	}

	list, err := s.songs.List(r.Context(), order)
	if err != nil {
		writeServiceError(w, err, "Failed to fetch songs")
		return
	}

	writeJSON(w, http.StatusOK, songsResponse{
		Count: len(list),
		Data:  list,
	})
}

// handleDeleteSongs removes every stored song.
func (s *Server) handleDeleteSongs(w http.ResponseWriter, r *http.Request) {
	count, err := s.songs.DeleteAll(r.Context())
	if err != nil {
		writeServiceError(w, err, "Failed to delete songs")
		return
	}

	writeJSON(w, http.StatusOK, deleteSongsResponse{
		Message: "All songs deleted successfully",
		Count:   count,
	})
}

// readUploadedFile pulls the "file" part out of a multipart request. A
// request without that part yields an Upload with nil Content.
func readUploadedFile(r *http.Request) (songs.Upload, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return songs.Upload{}, songs.ErrFileTooLarge
		case errors.Is(err, http.ErrNotMultipart):
			return songs.Upload{}, nil
		default:
			return songs.Upload{}, &songs.InputError{Message: "Invalid multipart upload.", Err: err}
		}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return songs.Upload{}, nil
		}
		return songs.Upload{}, &songs.InputError{Message: "Invalid multipart upload.", Err: err}
	}

	return songs.Upload{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  file,
	}, nil
}

func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var inputErr *songs.InputError
	if errors.As(err, &inputErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: inputErr.Message, Row: inputErr.Row})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: fallback})
}
