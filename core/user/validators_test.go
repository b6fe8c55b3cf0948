package user

import (
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

func Test_validatePassword(t *testing.T) {
	tests := []struct {
		name    string
		pwd     string
		wantTag string // empty means no password error expected
	}{
		{name: "too short", pwd: "aB1!x", wantTag: pwdMinLenTag},
		{name: "whitespace", pwd: "aB1! aB1!", wantTag: pwdNoSpaceTag},
		{name: "all numeric", pwd: "12345678", wantTag: pwdNotAllNumTag},
		{name: "no special char", pwd: "Abcdef12", wantTag: pwdComplexityTag},
		{name: "no uppercase", pwd: "abcdef1!", wantTag: pwdComplexityTag},
		{name: "no digit", pwd: "Abcdefg!", wantTag: pwdComplexityTag},
		{name: "similar to username", pwd: "Johndoe99!", wantTag: pwdAttrSimTag},
		{name: "valid", pwd: "xQ2#mVt9walala"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := NewUser{
				Name:            "John Doe",
				Username:        "johndoe99",
				Email:           "jdoe@test.cd",
				Password:        tt.pwd,
				PasswordConfirm: tt.pwd,
			}
			err := core.Validate.Struct(nu)

			var gotTag string
			if err != nil {
				errs, ok := err.(validator.ValidationErrors)
				if !ok {
					t.Fatalf("core.Validate.Struct() error = %v", err)
				}
				for _, fe := range errs {
					if fe.Field() == "password" {
						gotTag = fe.Tag()
						break
					}
				}
			}
			if gotTag != tt.wantTag {
				t.Errorf("password tag = %q; want %q", gotTag, tt.wantTag)
			}
		})
	}
}
