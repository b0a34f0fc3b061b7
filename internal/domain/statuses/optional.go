package statuses

import "encoding/json"

// OptionalBool distingue "campo no mencionado" de "campo explícitamente
// seteado" en un partial update:
//   - ausente en el JSON           => Set=false (se arrastra el valor previo)
//   - "campo": null                => Set=true, Value=nil (volver a unknown)
//   - "campo": true/false          => Set=true, Value=&v
//
// encoding/json solo llama UnmarshalJSON cuando la key está presente,
// por eso la distinción funciona sin flags extra en el request.
type OptionalBool struct {
	Set   bool
	Value *bool
}

func (o *OptionalBool) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var v bool
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// PartialUpdate lleva cero, uno o dos campos de un cambio de estado.
type PartialUpdate struct {
	InShelter      OptionalBool `json:"in_shelter"`
	SafeAfterAlarm OptionalBool `json:"safe_after_alarm"`
}
