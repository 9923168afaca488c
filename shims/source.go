package shims

import (
	"strings"
	"sync"
	"text/template"
)

// glueFunc is one forwarding function of the turtle module.
type glueFunc struct {
	Name   string
	Params string
	Args   string
}

var glueFuncs = []glueFunc{
	{"setup", "width=400, height=300, startx=None, starty=None", "width, height"},
	{"screensize", "", ""},
	{"forward", "distance", "distance"},
	{"backward", "distance", "distance"},
	{"left", "angle", "angle"},
	{"right", "angle", "angle"},
	{"penup", "", ""},
	{"pendown", "", ""},
	{"isdown", "", ""},
	{"goto", "x, y=None", "x, y"},
	{"setx", "x", "x"},
	{"sety", "y", "y"},
	{"position", "", ""},
	{"xcor", "", ""},
	{"ycor", "", ""},
	{"distance", "x, y=None", "x, y"},
	{"towards", "x, y=None", "x, y"},
	{"setheading", "to_angle", "to_angle"},
	{"heading", "", ""},
	{"home", "", ""},
	{"color", "*args", "*args"},
	{"pencolor", "*args", "*args"},
	{"fillcolor", "*args", "*args"},
	{"bgcolor", "*args", "*args"},
	{"width", "width=None", "width"},
	{"pensize", "width=None", "width"},
	{"speed", "speed=None", "speed"},
	{"delay", "delay=None", "delay"},
	{"tracer", "n=None, delay=None", "n, delay"},
	{"update", "", ""},
	{"shape", "name=None", "name"},
	{"showturtle", "", ""},
	{"hideturtle", "", ""},
	{"isvisible", "", ""},
	{"clear", "", ""},
	{"reset", "", ""},
	{"circle", "radius, extent=360, steps=None", "radius, extent"},
	{"dot", "size=None, color=None", "size, color"},
	{"stamp", "", ""},
	{"clearstamp", "stampid", "stampid"},
	{"clearstamps", "n=None", ""},
	{"begin_fill", "", ""},
	{"end_fill", "", ""},
	{"filling", "", ""},
	{"title", "titlestring=None", "titlestring"},
	{"onkeypress", "fun, key=None", "fun, key"},
	{"onkey", "fun, key=None", "fun, key"},
	{"onkeyrelease", "fun, key=None", "fun, key"},
	{"onclick", "fun, btn=1, add=None", "fun"},
	{"onscreenclick", "fun, btn=1, add=None", "fun"},
	{"onrelease", "fun, btn=1, add=None", "fun"},
	{"ontimer", "fun, t=0", "fun, t"},
	{"listen", "xdummy=None, ydummy=None", ""},
	{"mainloop", "", ""},
	{"done", "", ""},
	{"textinput", "title, prompt", "title, prompt"},
	{"numinput", "title, prompt, default=None, minval=None, maxval=None", "title, prompt, default, minval, maxval"},
}

// hostName maps glue functions to a differently named host builtin.
var hostName = map[string]string{
	"pensize": "width",
}

var aliases = [][2]string{
	{"fd", "forward"},
	{"bk", "backward"},
	{"back", "backward"},
	{"lt", "left"},
	{"rt", "right"},
	{"pu", "penup"},
	{"up", "penup"},
	{"pd", "pendown"},
	{"down", "pendown"},
	{"pos", "position"},
	{"setpos", "goto"},
	{"setposition", "goto"},
	{"seth", "setheading"},
	{"st", "showturtle"},
	{"ht", "hideturtle"},
}

// screenMembers are the functions a Screen exposes.
var screenMembers = []string{
	"setup", "screensize", "bgcolor", "title", "tracer", "delay", "update",
	"clear", "reset", "onkeypress", "onkey", "onkeyrelease", "onclick",
	"onscreenclick", "onrelease", "ontimer", "listen", "mainloop", "done",
	"textinput", "numinput",
}

const glueTemplate = `# turtle module

{{range .Funcs -}}
def {{.Name}}({{.Params}}):
    return {{$.Host}}.{{.Host}}({{.Args}})

{{end -}}
def write(arg, move=False, align="left", font=("Arial", 16, "normal")):
    if type(font) == "string":
        {{.Host}}.write(arg, font)
        return
    size = font[1] if len(font) > 1 else 16
    family = font[0] if len(font) > 0 else "Arial"
    {{.Host}}.write(arg, "%spx %s" % (size, family))

{{range .Aliases -}}
{{index . 0}} = {{index . 1}}
{{end}}
_turtle = struct(
{{- range .TurtleMembers}}
    {{.}}={{.}},
{{- end}}
)

_screen = struct(
{{- range .ScreenMembers}}
    {{.}}={{.}},
{{- end}}
)

def Turtle(shape=None, undobuffersize=None, visible=True):
    if shape != None:
        {{.Host}}.shape(shape)
    if not visible:
        {{.Host}}.hideturtle()
    return _turtle

def Pen():
    return _turtle

def Screen():
    return _screen

def getscreen():
    return _screen

def getturtle():
    return _turtle
`

type glueData struct {
	Host          string
	Funcs         []glueEntry
	Aliases       [][2]string
	TurtleMembers []string
	ScreenMembers []string
}

type glueEntry struct {
	glueFunc
	Host string
}

var renderSource = sync.OnceValue(func() string {
	data := glueData{
		Host:          HostModuleName,
		Aliases:       aliases,
		ScreenMembers: screenMembers,
	}
	for _, fn := range glueFuncs {
		host := fn.Name
		if name, ok := hostName[fn.Name]; ok {
			host = name
		}
		data.Funcs = append(data.Funcs, glueEntry{
			glueFunc: fn,
			Host:     host,
		})
		data.TurtleMembers = append(data.TurtleMembers, fn.Name)
	}
	data.TurtleMembers = append(data.TurtleMembers, "write")
	for _, alias := range aliases {
		data.TurtleMembers = append(data.TurtleMembers, alias[0])
	}

	var buf strings.Builder
	tmpl := template.Must(template.New("turtle").Parse(glueTemplate))
	if err := tmpl.Execute(&buf, data); err != nil {
		panic(err)
	}
	return buf.String()
})

// Source returns the Starlark text of the turtle module. It expects the
// host builtins under the name _host and the struct builtin.
func Source() string {
	return renderSource()
}
