package shader

// ModelVertex transforms skinned vertices, which arrive already posed in model space.
const ModelVertex = `#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aTexCoord;

uniform mat4 uMVP;

out vec3 vNormal;
out vec2 vTexCoord;

void main() {
	gl_Position = uMVP * vec4(aPos, 1.0);
	vNormal = aNormal;
	vTexCoord = aTexCoord;
}
`

// ModelFragment applies one texture with a single directional light.
const ModelFragment = `#version 410 core

in vec3 vNormal;
in vec2 vTexCoord;

uniform sampler2D uTexture;
uniform vec3 uLightDir;

out vec4 FragColor;

void main() {
	vec4 tex = texture(uTexture, vTexCoord);
	if (tex.a < 0.5) {
		discard;
	}
	float diffuse = max(dot(normalize(vNormal), -normalize(uLightDir)), 0.0);
	FragColor = vec4(tex.rgb * (0.35 + 0.65 * diffuse), tex.a);
}
`

// LineVertex draws untextured debug lines.
const LineVertex = `#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 uMVP;

void main() {
	gl_Position = uMVP * vec4(aPos, 1.0);
}
`

// LineFragment fills lines with a flat color.
const LineFragment = `#version 410 core

uniform vec4 uColor;

out vec4 FragColor;

void main() {
	FragColor = uColor;
}
`
