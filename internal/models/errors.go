package models

import "errors"

var (
	ErrNoTable              = errors.New("no table loaded")
	ErrUnknownColumn        = errors.New("unknown column")
	ErrDuplicateColumn      = errors.New("duplicate column name")
	ErrConversion           = errors.New("column conversion failed")
	ErrUnknownAngleCategory = errors.New("unknown angle category")
	ErrInvalidPlotType      = errors.New("plot type must be \"planes\", \"poles\", \"lines\" or \"rakes\"")
	ErrInvalidAzimuthType   = errors.New("azimuth type must be \"strike\" or \"dip direction\"")
	ErrInvalidCoordinate    = errors.New("invalid coordinate")
)
