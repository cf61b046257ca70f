package entity

import "errors"

var (
	// Pipeline errors
	ErrInvalidInputType  = errors.New("selected file is not an image")
	ErrSourceDecode      = errors.New("source image cannot be decoded")
	ErrCanvasUnavailable = errors.New("drawing surface cannot be created")
	ErrOverlayLoad       = errors.New("overlay cannot be loaded")
	ErrEncode            = errors.New("result cannot be encoded")

	// Session errors
	ErrNothingToExport  = errors.New("no published result")
	ErrConcurrentUpdate = errors.New("concurrent update detected")
)
