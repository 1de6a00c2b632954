package types

// Image is a catalog row for one image file on disk.
type Image struct {
	// Catalog identifier.
	// example: 42
	ID int64 `json:"id" example:"42"`
	// Absolute path of the image file.
	// example: /photos/2024/dsc_0042.nef
	Location string `json:"location" example:"/photos/2024/dsc_0042.nef"`
	// MD5 hex digest of the file contents.
	// example: 9e107d9d372bb6826bd81d3542a419d6
	Hash string `json:"hash" example:"9e107d9d372bb6826bd81d3542a419d6"`
	// Lowercased file extension without the dot.
	// example: nef
	Format string `json:"format" example:"nef"`
	// Model-generated description; empty until the describer has run.
	Description string `json:"description,omitempty"`
	// EXIF Artist tag.
	Author string `json:"author,omitempty"`
	// EXIF camera model.
	// example: NIKON D750
	Camera string `json:"camera,omitempty" example:"NIKON D750"`
	// EXIF orientation (1 when absent).
	// example: 1
	Orientation int `json:"orientation" example:"1"`
	// EXIF X resolution in DPI.
	XResolution float64 `json:"x_resolution,omitempty"`
	// EXIF Y resolution in DPI.
	YResolution float64 `json:"y_resolution,omitempty"`
	// EXIF DateTimeOriginal as recorded by the camera.
	// example: 2024:06:01 12:30:05
	DateTaken string `json:"date_taken,omitempty" example:"2024:06:01 12:30:05"`
	// Exposure time in seconds.
	// example: 0.008
	ExposureTime float64 `json:"exposure_time,omitempty" example:"0.008"`
	// Aperture F number.
	// example: 2.8
	FNumber float64 `json:"f_number,omitempty" example:"2.8"`
	// ISO speed rating.
	// example: 400
	ISO int `json:"iso,omitempty" example:"400"`
	// Focal length in millimeters.
	// example: 50
	FocalLength float64 `json:"focal_length,omitempty" example:"50"`
	// URL of the image record.
	// example: /images/42
	URL string `json:"url,omitempty" example:"/images/42"`
	// URL of the raw file bytes.
	// example: /images/42/file
	FileURL string `json:"file_url,omitempty" example:"/images/42/file"`
}

// Location is a registered import directory that scans walk recursively.
type Location struct {
	// Catalog identifier.
	// example: 3
	ID int64 `json:"id" example:"3"`
	// Absolute directory path.
	// example: /photos/2024
	Directory string `json:"directory" example:"/photos/2024"`
}
