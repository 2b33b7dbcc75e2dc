package catalog

import "fmt"

var builtinEquations = []Equation{
	// kinematics
	{
		Name: "final_velocity", Category: "kinematics", Formula: "v = v0 + a * t",
		Variables:   []string{"v", "v0", "a", "t"},
		Description: "velocity after constant acceleration",
		Units:       map[string]string{"v": "m/s", "v0": "m/s", "a": "m/s^2", "t": "s"},
	},
	{
		Name: "displacement", Category: "kinematics", Formula: "d = v0 * t + 0.5 * a * t^2",
		Variables:   []string{"d", "v0", "t", "a"},
		Description: "distance covered under constant acceleration",
		Units:       map[string]string{"d": "m", "v0": "m/s", "t": "s", "a": "m/s^2"},
	},
	{
		Name: "timeless_velocity", Category: "kinematics", Formula: "v^2 = v0^2 + 2 * a * d",
		Variables:   []string{"v", "v0", "a", "d"},
		Description: "velocity and distance without time",
		Units:       map[string]string{"v": "m/s", "v0": "m/s", "a": "m/s^2", "d": "m"},
	},
	{
		Name: "average_speed", Category: "kinematics", Formula: "s = d / t",
		Variables: []string{"s", "d", "t"},
		Units:     map[string]string{"s": "m/s", "d": "m", "t": "s"},
	},
	{
		Name: "free_fall", Category: "kinematics", Formula: "h = 0.5 * g * t^2",
		Variables:   []string{"h", "g", "t"},
		Description: "height fallen from rest",
		Units:       map[string]string{"h": "m", "g": "m/s^2", "t": "s"},
	},

	// dynamics
	{
		Name: "newtons_second_law", Category: "dynamics", Formula: "F = m * a",
		Variables: []string{"F", "m", "a"},
		Units:     map[string]string{"F": "N", "m": "kg", "a": "m/s^2"},
	},
	{
		Name: "weight", Category: "dynamics", Formula: "W = m * g",
		Variables: []string{"W", "m", "g"},
		Units:     map[string]string{"W": "N", "m": "kg", "g": "m/s^2"},
	},
	{
		Name: "momentum", Category: "dynamics", Formula: "p = m * v",
		Variables: []string{"p", "m", "v"},
		Units:     map[string]string{"p": "kg m/s", "m": "kg", "v": "m/s"},
	},
	{
		Name: "impulse", Category: "dynamics", Formula: "J = F * t",
		Variables: []string{"J", "F", "t"},
		Units:     map[string]string{"J": "N s", "F": "N", "t": "s"},
	},
	{
		Name: "friction", Category: "dynamics", Formula: "f = mu * N",
		Variables: []string{"f", "mu", "N"},
		Units:     map[string]string{"f": "N", "N": "N"},
	},
	{
		Name: "centripetal_force", Category: "dynamics", Formula: "F = m * v^2 / r",
		Variables: []string{"F", "m", "v", "r"},
		Units:     map[string]string{"F": "N", "m": "kg", "v": "m/s", "r": "m"},
	},

	// energy
	{
		Name: "kinetic_energy", Category: "energy", Formula: "KE = 0.5 * m * v^2",
		Variables: []string{"KE", "m", "v"},
		Units:     map[string]string{"KE": "J", "m": "kg", "v": "m/s"},
	},
	{
		Name: "potential_energy", Category: "energy", Formula: "PE = m * g * h",
		Variables: []string{"PE", "m", "g", "h"},
		Units:     map[string]string{"PE": "J", "m": "kg", "g": "m/s^2", "h": "m"},
	},
	{
		Name: "work", Category: "energy", Formula: "W = F * d * cos(theta)",
		Variables:   []string{"W", "F", "d", "theta"},
		Description: "work done by a force at angle theta to the motion",
		Units:       map[string]string{"W": "J", "F": "N", "d": "m", "theta": "rad"},
	},
	{
		Name: "power", Category: "energy", Formula: "P = W / t",
		Variables: []string{"P", "W", "t"},
		Units:     map[string]string{"P": "W", "W": "J", "t": "s"},
	},

	// waves
	{
		Name: "wave_speed", Category: "waves", Formula: "v = f * lambda",
		Variables: []string{"v", "f", "lambda"},
		Units:     map[string]string{"v": "m/s", "f": "Hz", "lambda": "m"},
	},
	{
		Name: "period", Category: "waves", Formula: "T = 1 / f",
		Variables: []string{"T", "f"},
		Units:     map[string]string{"T": "s", "f": "Hz"},
	},
	{
		Name: "pendulum_period", Category: "waves", Formula: "T = 2 * pi * sqrt(L / g)",
		Variables:   []string{"T", "L", "g"},
		Description: "small-angle period of a simple pendulum",
		Units:       map[string]string{"T": "s", "L": "m", "g": "m/s^2"},
	},
	{
		Name: "spring_period", Category: "waves", Formula: "T = 2 * pi * sqrt(m / k)",
		Variables: []string{"T", "m", "k"},
		Units:     map[string]string{"T": "s", "m": "kg", "k": "N/m"},
	},

	// electricity
	{
		Name: "ohms_law", Category: "electricity", Formula: "V = I * R",
		Variables: []string{"V", "I", "R"},
		Units:     map[string]string{"V": "V", "I": "A", "R": "ohm"},
	},
	{
		Name: "electric_power", Category: "electricity", Formula: "P = V * I",
		Variables: []string{"P", "V", "I"},
		Units:     map[string]string{"P": "W", "V": "V", "I": "A"},
	},
	{
		Name: "coulombs_law", Category: "electricity", Formula: "F = k * q1 * q2 / r^2",
		Variables: []string{"F", "k", "q1", "q2", "r"},
		Units:     map[string]string{"F": "N", "k": "N m^2/C^2", "q1": "C", "q2": "C", "r": "m"},
	},

	// matter
	{
		Name: "density", Category: "matter", Formula: "rho = m / V",
		Variables: []string{"rho", "m", "V"},
		Units:     map[string]string{"rho": "kg/m^3", "m": "kg", "V": "m^3"},
	},
	{
		Name: "pressure", Category: "matter", Formula: "P = F / A",
		Variables: []string{"P", "F", "A"},
		Units:     map[string]string{"P": "Pa", "F": "N", "A": "m^2"},
	},

	// gravitation
	{
		Name: "universal_gravitation", Category: "gravitation", Formula: "F = G * m1 * m2 / r^2",
		Variables: []string{"F", "G", "m1", "m2", "r"},
		Units:     map[string]string{"F": "N", "G": "N m^2/kg^2", "m1": "kg", "m2": "kg", "r": "m"},
	},
	{
		Name: "escape_velocity", Category: "gravitation", Formula: "v = sqrt(2 * G * M / r)",
		Variables: []string{"v", "G", "M", "r"},
		Units:     map[string]string{"v": "m/s", "G": "N m^2/kg^2", "M": "kg", "r": "m"},
	},
	{
		Name: "orbital_velocity", Category: "gravitation", Formula: "v = sqrt(G * M / r)",
		Variables: []string{"v", "G", "M", "r"},
		Units:     map[string]string{"v": "m/s", "G": "N m^2/kg^2", "M": "kg", "r": "m"},
	},

	// astronomy
	{
		Name: "keplers_third_law", Category: "astronomy", Formula: "T^2 = 4 * pi^2 * a^3 / (G * M)",
		Variables:   []string{"T", "a", "G", "M"},
		Description: "orbital period from semi-major axis and central mass",
		Units:       map[string]string{"T": "s", "a": "m", "G": "N m^2/kg^2", "M": "kg"},
	},
	{
		Name: "hubbles_law", Category: "astronomy", Formula: "v = H0 * d",
		Variables: []string{"v", "H0", "d"},
		Units:     map[string]string{"v": "km/s", "H0": "km/s/Mpc", "d": "Mpc"},
	},
	{
		Name: "wiens_law", Category: "astronomy", Formula: "lambda_max = b / T",
		Variables: []string{"lambda_max", "b", "T"},
		Units:     map[string]string{"lambda_max": "m", "b": "m K", "T": "K"},
	},
	{
		Name: "flux", Category: "astronomy", Formula: "F = L / (4 * pi * d^2)",
		Variables: []string{"F", "L", "d"},
		Units:     map[string]string{"F": "W/m^2", "L": "W", "d": "m"},
	},
	{
		Name: "stefan_boltzmann", Category: "astronomy", Formula: "L = 4 * pi * R^2 * sigma * T^4",
		Variables: []string{"L", "R", "sigma", "T"},
		Units:     map[string]string{"L": "W", "R": "m", "sigma": "W/m^2/K^4", "T": "K"},
	},
	{
		Name: "distance_modulus", Category: "astronomy", Formula: "m - M = 5 * log(d / 10)",
		Variables:   []string{"m", "M", "d"},
		Description: "apparent minus absolute magnitude for distance d in parsecs",
		Units:       map[string]string{"d": "pc"},
	},
	{
		Name: "redshift", Category: "astronomy", Formula: "z = (lambda_obs - lambda_emit) / lambda_emit",
		Variables: []string{"z", "lambda_obs", "lambda_emit"},
		Units:     map[string]string{"lambda_obs": "m", "lambda_emit": "m"},
	},
}

var builtin *Catalog

func init() {
	c, err := New(builtinEquations...)
	if err != nil {
		panic(fmt.Sprintf("catalog: invalid builtin equation: %v", err))
	}
	builtin = c
}

// Builtin returns the physics and astronomy catalog shipped with eqsolve.
func Builtin() *Catalog { return builtin }
