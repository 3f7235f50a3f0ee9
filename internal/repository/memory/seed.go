package memory

import "tutorialapi/internal/repository"

func seed() map[string]map[string]map[string]any {
	return map[string]map[string]map[string]any{
		repository.CollectionItems: {
			"foo": {"name": "Foo", "price": 50.2},
			"bar": {"name": "Bar", "description": "The bartenders", "price": 62, "tax": 20.2},
			"baz": {"name": "Baz", "description": nil, "price": 50.2, "tax": 10.5, "tags": []any{}},
		},
		repository.CollectionData: {
			"foo": {"name": "Foo", "price": 50.2},
			"bar": {"name": "Bar", "description": "The Bar fighters", "price": 62, "tax": 20.2},
			"baz": {"name": "Baz", "description": "There goes my baz", "price": 50.2, "tax": 10.5},
		},
		repository.CollectionVehicles: {
			"item1": {"description": "All my friends drive a low rider", "type": "car"},
			"item2": {"description": "Music is my aeroplane, it's my aeroplane", "type": "plane", "size": 5},
		},
	}
}
