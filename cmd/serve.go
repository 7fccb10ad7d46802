package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"midigraph/audio"
	"midigraph/config"
	"midigraph/formula"
	"midigraph/midi"
	"midigraph/model"
	"midigraph/soundfont"
)

var (
	srvCfg  config.Config
	uploads *uploadStore
	fonts   *soundfontCache
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the conversion HTTP service",
	Long:  `Runs the conversion HTTP service`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

// InitServer prepares the shared handler state. Split out of serve so
// tests can exercise the handlers without a listener.
func InitServer(c config.Config, tempDir string) error {
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	if err := os.MkdirAll(c.Soundfonts.Dir, 0755); err != nil {
		return fmt.Errorf("creating soundfont dir: %w", err)
	}
	clearDir(tempDir)

	srvCfg = c
	uploads = newUploadStore(tempDir, time.Duration(c.Server.FileExpirationMinutes)*time.Minute)
	fonts = newSoundfontCache(c.Soundfonts.Dir)
	return nil
}

// NewRouter wires every endpoint, CORS-wrapped like the rest of the
// toolchain expects.
func NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/upload", HandleUpload).Methods("POST")
	router.HandleFunc("/midi-info/{filename}", HandleMidiInfo).Methods("GET")
	router.HandleFunc("/convert", HandleConvert).Methods("POST")
	router.HandleFunc("/harmonic-info/{filename}", HandleHarmonicInfo).Methods("GET")
	router.HandleFunc("/soundfonts", HandleListSoundfonts).Methods("GET")
	router.HandleFunc("/save-soundfont/{filename}", HandleSaveSoundfont).Methods("POST")
	router.HandleFunc("/refresh-file", HandleRefreshFile).Methods("POST")
	router.HandleFunc("/getfile/{filename}", HandleGetFile).Methods("GET")
	return cors.Default().Handler(router)
}

func serve() {
	if err := InitServer(cfg, "temp"); err != nil {
		log.Fatal(err)
	}
	go uploads.runCleanup(time.Minute)

	log.Printf("Listening on http://localhost:%v", cfg.Server.Port)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", cfg.Server.Port), NewRouter()))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: msg})
}

// statusFor maps validation failures to 400 and anything unexpected
// to 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, midi.ErrMalformed),
		errors.Is(err, audio.ErrDecode),
		errors.Is(err, audio.ErrOutOfRange),
		errors.Is(err, formula.ErrTooLong),
		errors.Is(err, soundfont.ErrMissing),
		errors.Is(err, soundfont.ErrChannelMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// HandleUpload stores a MIDI or WAV upload under an opaque token name
// and starts its expiration clock.
func HandleUpload(w http.ResponseWriter, r *http.Request) {
	maxBytes := srvCfg.Server.MaxFileSizeMB * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file was uploaded: "+err.Error())
		return
	}
	defer file.Close()

	token := uuid.New().String() + strings.ToLower(filepath.Ext(header.Filename))
	dst, err := os.Create(filepath.Join(uploads.dir, token))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not store file: "+err.Error())
		return
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		writeError(w, http.StatusBadRequest, "could not store file: "+err.Error())
		return
	}
	uploads.add(token)

	writeJSON(w, model.UploadResponse{
		Filename:                token,
		ExpiresInMinutes:        srvCfg.Server.FileExpirationMinutes,
		RefreshThresholdMinutes: srvCfg.Server.RefreshThresholdMinutes,
	})
}

func HandleMidiInfo(w http.ResponseWriter, r *http.Request) {
	path, ok := uploads.resolve(mux.Vars(r)["filename"])
	if !ok {
		writeError(w, http.StatusNotFound, "MIDI file not found")
		return
	}

	channels, err := Info(path, srvCfg)
	if err != nil {
		writeError(w, statusFor(err), "could not process MIDI file: "+err.Error())
		return
	}
	writeJSON(w, model.MidiInfoResponse{Channels: channels})
}

func HandleConvert(w http.ResponseWriter, r *http.Request) {
	var req model.ConversionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse request body: "+err.Error())
		return
	}

	path, ok := uploads.resolve(req.Filename)
	if !ok {
		writeError(w, http.StatusNotFound, "MIDI file not found")
		return
	}

	out, err := Convert(path, req.Soundfonts, srvCfg)
	if err != nil {
		writeError(w, statusFor(err), "could not process MIDI file: "+err.Error())
		return
	}
	writeJSON(w, model.ConversionResponse{Formula: out})
}

func HandleHarmonicInfo(w http.ResponseWriter, r *http.Request) {
	params, err := harmonicParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	path, ok := uploads.resolve(mux.Vars(r)["filename"])
	if !ok {
		writeError(w, http.StatusNotFound, "WAV file not found")
		return
	}

	data, err := audio.DecodeWavFile(path)
	if err != nil {
		writeError(w, statusFor(err), "could not read WAV file: "+err.Error())
		return
	}
	weights, err := audio.Analyze(data, params, srvCfg.Server.Limits)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, model.HarmonicResponse{Harmonics: weights})
}

// harmonicParams reads the analysis query parameters, falling back to
// the defaults for absent ones. Range checking is left to the
// analyzer, which rejects rather than clamps.
func harmonicParams(r *http.Request) (audio.Params, error) {
	params := audio.DefaultParams()
	q := r.URL.Query()

	var err error
	if v := q.Get("samples"); v != "" {
		if params.Samples, err = strconv.Atoi(v); err != nil {
			return params, fmt.Errorf("bad samples value %q", v)
		}
	}
	if v := q.Get("startTime"); v != "" {
		if params.StartTime, err = strconv.ParseFloat(v, 64); err != nil {
			return params, fmt.Errorf("bad startTime value %q", v)
		}
	}
	if v := q.Get("baseFreq"); v != "" {
		if params.BaseFreq, err = strconv.ParseFloat(v, 64); err != nil {
			return params, fmt.Errorf("bad baseFreq value %q", v)
		}
	}
	if v := q.Get("harmonics"); v != "" {
		if params.Harmonics, err = strconv.Atoi(v); err != nil {
			return params, fmt.Errorf("bad harmonics value %q", v)
		}
	}
	if v := q.Get("boost"); v != "" {
		if params.Boost, err = strconv.ParseFloat(v, 64); err != nil {
			return params, fmt.Errorf("bad boost value %q", v)
		}
	}
	return params, nil
}

func HandleListSoundfonts(w http.ResponseWriter, r *http.Request) {
	names, err := fonts.list()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not read soundfont directory: "+err.Error())
		return
	}
	writeJSON(w, model.SoundfontListResponse{Soundfonts: names})
}

func HandleSaveSoundfont(w http.ResponseWriter, r *http.Request) {
	var weights model.SoundFont
	if err := json.NewDecoder(r.Body).Decode(&weights); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse weights: "+err.Error())
		return
	}

	name := soundfont.NormalizeName(filepath.Base(mux.Vars(r)["filename"]))
	path := filepath.Join(srvCfg.Soundfonts.Dir, name)
	if err := os.WriteFile(path, []byte(soundfont.Format(weights)), 0644); err != nil {
		writeError(w, http.StatusInternalServerError, "could not write soundfont: "+err.Error())
		return
	}
	fonts.invalidate()

	writeJSON(w, model.StatusResponse{
		Status:   "ok",
		Message:  "Soundfont saved successfully",
		Filename: name,
	})
}

func HandleRefreshFile(w http.ResponseWriter, r *http.Request) {
	var req model.RefreshFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse request body: "+err.Error())
		return
	}
	if !uploads.refresh(req.Filename) {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	writeJSON(w, model.StatusResponse{
		Status:   "ok",
		Message:  "File expiration refreshed",
		Filename: req.Filename,
	})
}

func HandleGetFile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["filename"]
	path, ok := uploads.resolve(name)
	if !ok {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}

	content, err := os.ReadFile(path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not read file: "+err.Error())
		return
	}
	w.Header().Set("Content-Type", contentTypeFor(path))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(content)
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mid", ".midi":
		return "audio/midi"
	case ".wav":
		return "audio/wav"
	case ".txt":
		return "text/plain"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
