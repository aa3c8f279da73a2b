package templates

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type route struct {
	VehicleType string
	BrandID     string
}

func TestRendererRendersRoutes(t *testing.T) {
	renderer := NewRenderer()

	tests := []struct {
		name     string
		template string
		data     any
		want     string
	}{
		{
			name:     "struct fields",
			template: "{{ .VehicleType }}/brands/{{ .BrandID }}/models",
			data:     route{VehicleType: "cars", BrandID: "59"},
			want:     "cars/brands/59/models",
		},
		{
			name:     "sprig helpers",
			template: `{{ .VehicleType | upper }}/{{ default "all" .BrandID }}`,
			data:     route{VehicleType: "trucks"},
			want:     "TRUCKS/all",
		},
		{
			name:     "surrounding whitespace trimmed",
			template: "  references\n",
			data:     route{},
			want:     "references",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			tmpl, err := renderer.CompileInline("route", tc.template)
			require.NoError(t, err)
			rendered, err := tmpl.Render(tc.data)
			require.NoError(t, err)
			require.Equal(t, tc.want, rendered)
		})
	}
}

func TestRendererRemovesEnvironmentAndFileHelpers(t *testing.T) {
	renderer := NewRenderer()
	for _, fn := range []string{"env", "expandenv", "readFile", "glob"} {
		_, err := renderer.CompileInline(fn, "{{ "+fn+` "x" }}`)
		require.Error(t, err, "expected %s to be unavailable", fn)
	}
}

func TestRendererCompileInlineEdgeCases(t *testing.T) {
	renderer := NewRenderer()

	tmpl, err := renderer.CompileInline("empty", "   ")
	require.NoError(t, err)
	require.Nil(t, tmpl)

	_, err = renderer.CompileInline("broken", "{{ .VehicleType ")
	require.Error(t, err)

	tmpl, err = renderer.CompileInline("", "{{ .Missing }}")
	require.NoError(t, err)
	require.Equal(t, "inline", tmpl.Name())
	_, err = tmpl.Render(route{})
	require.Error(t, err, "unknown fields must fail at render time")

	var nilTemplate *Template
	_, err = nilTemplate.Render(nil)
	require.Error(t, err)
	require.Empty(t, nilTemplate.Name())
}
