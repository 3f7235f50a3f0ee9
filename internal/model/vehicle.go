package model

// ModelName is one of the supported network architectures.
type ModelName string

const (
	AlexNet ModelName = "alexnet"
	ResNet  ModelName = "resnet"
	LeNet   ModelName = "lenet"
)

// Describe returns the catalog blurb for m.
func (m ModelName) Describe() string {
	switch m {
	case AlexNet:
		return "Deep Learning FTW!"
	case LeNet:
		return "LeCNN all the images"
	default:
		return "Have some residuals"
	}
}

type BaseItem struct {
	Description string `json:"description"`
	Type        string `json:"type"`
}

type CarItem struct {
	BaseItem
	Type string `json:"type" default:"car"`
}

type PlaneItem struct {
	BaseItem
	Type string `json:"type" default:"plane"`
	Size int    `json:"size"`
}
