package server

import (
	"encoding/json"
	"fmt"
	"image"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/plate-finder/internal/detection"
	"github.com/ironsheep/plate-finder/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "plate_detect").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	entry := s.log.WithFields(logrus.Fields{
		"tool":    params.Name,
		"elapsed": time.Since(start),
	})
	if err != nil {
		entry.WithError(err).Info("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	entry.Debug("tool complete")

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_crop":
		return s.handleImageCrop(args)

	// Plate Detection
	case "plate_detect":
		return s.handlePlateDetect(args)
	case "plate_annotate":
		return s.handlePlateAnnotate(args)
	case "plate_crop":
		return s.handlePlateCrop(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type imageCropArgs struct {
	Path  string  `json:"path"`
	X1    int     `json:"x1"`
	Y1    int     `json:"y1"`
	X2    int     `json:"x2"`
	Y2    int     `json:"y2"`
	Scale float64 `json:"scale"`
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Crop(img, a.X1, a.Y1, a.X2, a.Y2, a.Scale)
}

// === Plate Detection Handlers ===

type plateDetectArgs struct {
	Path string `json:"path"`
}

// detectPath loads path and runs the detector over it.
func (s *Server) detectPath(path string) (image.Image, *detection.Result, error) {
	if path == "" {
		return nil, nil, fmt.Errorf("path is required")
	}
	img, ch, err := imaging.LoadChannels(s.cache, path)
	if err != nil {
		return nil, nil, err
	}
	res, err := s.detector.Detect(ch)
	if err != nil {
		return nil, nil, fmt.Errorf("plate detection failed for %s: %w", path, err)
	}
	return img, res, nil
}

func (s *Server) handlePlateDetect(args json.RawMessage) (interface{}, error) {
	var a plateDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	_, res, err := s.detectPath(a.Path)
	if err != nil {
		return nil, err
	}
	return res, nil
}

type plateAnnotateArgs struct {
	Path       string `json:"path"`
	OutputPath string `json:"output_path"`
	Scale      int    `json:"scale"`
}

// AnnotateResult describes an annotated image written to disk.
type AnnotateResult struct {
	OutputPath string           `json:"output_path"`
	Width      int              `json:"width"`
	Height     int              `json:"height"`
	Bounds     detection.Bounds `json:"bounds"`
	Aspect     float64          `json:"aspect"`
}

func (s *Server) handlePlateAnnotate(args json.RawMessage) (interface{}, error) {
	var a plateAnnotateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	_, res, err := s.detectPath(a.Path)
	if err != nil {
		return nil, err
	}

	opts := s.cfg.Render
	if a.Scale != 0 {
		opts.Scale = a.Scale
	}
	out, err := imaging.RenderDetection(res.Greyscale, res.Bounds, opts)
	if err != nil {
		return nil, err
	}

	path := a.OutputPath
	if path == "" {
		path = imaging.OutputPathFor(a.Path, s.cfg.OutputDir)
	}
	if err := imaging.SaveRendering(path, out); err != nil {
		return nil, err
	}

	return &AnnotateResult{
		OutputPath: path,
		Width:      out.Bounds().Dx(),
		Height:     out.Bounds().Dy(),
		Bounds:     res.Bounds,
		Aspect:     res.Aspect,
	}, nil
}

type plateCropArgs struct {
	Path  string  `json:"path"`
	Scale float64 `json:"scale"`
}

// PlateCropResult is the cropped plate with the box it was cut from.
type PlateCropResult struct {
	Bounds detection.Bounds `json:"bounds"`
	*imaging.CropResult
}

func (s *Server) handlePlateCrop(args json.RawMessage) (interface{}, error) {
	var a plateCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, res, err := s.detectPath(a.Path)
	if err != nil {
		return nil, err
	}
	crop, err := imaging.CropPlate(img, res.Bounds, a.Scale)
	if err != nil {
		return nil, err
	}
	return &PlateCropResult{Bounds: res.Bounds, CropResult: crop}, nil
}
