package model

// Model defines how a benchboard value is converted to and from the shape
// served by the REST API.
type Model interface {
	// Import fills the API model from a service value.
	Import(interface{}) error
	// Export builds the service value back from the API model.
	Export() (interface{}, error)
}
