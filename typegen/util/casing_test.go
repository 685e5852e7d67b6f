package util

import "testing"

func TestToPascalCase(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "snake case", input: "user_id", want: "UserId"},
		{name: "kebab case", input: "created-at", want: "CreatedAt"},
		{name: "dotted", input: "pet.owner", want: "PetOwner"},
		{name: "spaces and slashes", input: "orders / line items", want: "OrdersLineItems"},
		{name: "already pascal", input: "HTTPServer", want: "HTTPServer"},
		{name: "camel case keeps inner capitals", input: "petName", want: "PetName"},
		{name: "leading separators", input: "__meta", want: "Meta"},
		{name: "digits", input: "v2_status", want: "V2Status"},
		{name: "braces dropped", input: "{id}", want: "Id"},
		{name: "empty", input: "", want: ""},
		{name: "only separators", input: "-_-", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToPascalCase(tt.input); got != tt.want {
				t.Errorf("ToPascalCase(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestJoinName(t *testing.T) {
	if got := JoinName("Pet", "owner", "", "Item"); got != "PetOwnerItem" {
		t.Errorf("JoinName = %q, want PetOwnerItem", got)
	}
	if got := JoinName("Pet"); got != "Pet" {
		t.Errorf("JoinName with no parts = %q, want Pet", got)
	}
}
