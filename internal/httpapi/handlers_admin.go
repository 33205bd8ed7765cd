package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"studiod/internal/backend"
	"studiod/internal/hardware"
	"studiod/pkg/types"
)

// respondAdminError writes the plain error shape for a service error, unless
// the request was canceled.
func (s *server) respondAdminError(w http.ResponseWriter, r *http.Request, err error) {
	if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
		return
	}
	status := statusForError(err)
	if status == http.StatusTooManyRequests {
		IncrementBackpressure("engine_busy")
	}
	writeJSONError(w, status, err.Error())
}

// handleHealth serves GET /health.
//
//	@Summary		Health check
//	@Tags			admin
//	@Produce		json
//	@Success		200	{object}	types.HealthResponse
//	@Router			/health [get]
func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := types.HealthResponse{
		Status:      "healthy",
		ModelLoaded: s.svc.Loaded(),
		Backend:     s.svc.Engine(),
	}
	if info := s.svc.Info(); info != nil {
		resp.Model = info.Name
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleStatus serves GET /status with queue and generation state.
//
//	@Summary		Studio status
//	@Tags			admin
//	@Produce		json
//	@Success		200	{object}	types.StatusResponse
//	@Router			/status [get]
func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.svc.Status()
	resp := types.StatusResponse{
		Backend:     st.Engine,
		Available:   st.Available,
		ModelLoaded: st.Loaded,
		QueueLen:    st.Queued,
		Generating:  st.InFlight > 0,
	}
	if st.Model != nil {
		resp.Model = st.Model.Name
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleHardware serves GET /hardware. Detection runs per request so the
// available-memory figure is current.
//
//	@Summary		Hardware report
//	@Description	Detected platform, CPU, memory and GPU, with backend and model size recommendations.
//	@Tags			admin
//	@Produce		json
//	@Success		200	{object}	types.HardwareResponse
//	@Router			/hardware [get]
func (s *server) handleHardware(w http.ResponseWriter, r *http.Request) {
	info := s.hw()
	writeJSON(w, http.StatusOK, types.HardwareResponse{
		Platform:        info.Platform,
		PlatformVersion: info.PlatformVersion,
		CPUBrand:        info.CPUBrand,
		CPUCores:        info.CPUCores,
		RAMGB:           info.RAMGB,
		AvailableRAMGB:  info.AvailableRAMGB,
		GPU: types.GPUInfo{
			Vendor:         info.GPU.Vendor,
			Name:           info.GPU.Name,
			VRAMGB:         info.GPU.VRAMGB,
			CUDAAvailable:  info.GPU.CUDAAvailable,
			CUDAVersion:    info.GPU.CUDAVersion,
			MetalAvailable: info.GPU.MetalAvailable,
		},
		RecommendedBackend:     info.RecommendedBackend,
		RecommendedModelSizeGB: info.RecommendedModelSizeGB,
		Compatibility:          hardware.Compatibility(info),
	})
}

// handleLoad serves POST /load: download if needed, then load the model.
//
//	@Summary		Load a model
//	@Description	Loads a model from a local path or Hugging Face reference, downloading it first when missing. Replaces the currently loaded model.
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		types.LoadRequest	true	"Load request"
//	@Success		200		{object}	types.LoadResponse
//	@Failure		400		{object}	types.ErrorResponse
//	@Failure		404		{object}	types.ErrorResponse
//	@Failure		429		{object}	types.ErrorResponse
//	@Failure		503		{object}	types.ErrorResponse
//	@Failure		507		{object}	types.ErrorResponse
//	@Router			/load [post]
func (s *server) handleLoad(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	var req types.LoadRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Model) == "" {
		writeJSONError(w, http.StatusBadRequest, "model is required")
		return
	}

	opts := backend.DefaultLoadOptions()
	if req.ContextLength > 0 {
		opts.ContextLength = req.ContextLength
	}
	if req.GPULayers != nil {
		opts.AcceleratorLayers = *req.GPULayers
	}
	if req.Threads > 0 {
		opts.Threads = req.Threads
	}

	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()

	info, err := s.svc.Load(ctx, req.Model, opts)
	if err != nil {
		s.respondAdminError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.LoadResponse{
		Success:       true,
		Model:         info.Name,
		SizeGB:        info.SizeGB,
		ContextLength: info.ContextLength,
		Quantization:  info.Quantization,
		Parameters:    info.Parameters,
	})
}

// handleUnload serves POST /unload. Unloading with no model loaded is a
// no-op that still reports success.
//
//	@Summary		Unload the current model
//	@Tags			admin
//	@Produce		json
//	@Success		200	{object}	types.UnloadResponse
//	@Failure		500	{object}	types.ErrorResponse
//	@Router			/unload [post]
func (s *server) handleUnload(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Unload(); err != nil {
		s.respondAdminError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.UnloadResponse{Success: true})
}
