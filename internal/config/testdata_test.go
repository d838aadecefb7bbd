package config

const validModelYAML = `
version: v1.0.0
healthy:
  HE4:    {mean: 60, variance: 225}
  AFP:    {mean: 5, variance: 9}
  CA19-9: {mean: 10, variance: 4}
classes:
  - id: Ovarian_Early
    label: Ovarian Early
    cancer: ovarian
    signal: HE4
    mean: 151
    variance: 6348
  - id: Pancreatic_Stage_IV
    label: Pancreatic Stage IV
    cancer: pancreatic
    signal: CA19-9
    mean: 12500
    variance: 35000000
`

const validModelJSON = `{
  "version": "v1.2.0",
  "healthy": {
    "HE4": {"mean": 60, "variance": 225},
    "AFP": {"mean": 5, "variance": 9},
    "CA19-9": {"mean": 20, "variance": 100}
  },
  "classes": [
    {"id": "Liver_Stage_I", "signal": "AFP", "mean": 100, "variance": 7500},
    {"id": "Liver_Stage_IV", "signal": "AFP", "mean": 6000, "variance": 15000000}
  ],
  "priors": {"Liver_Stage_I": 3, "Liver_Stage_IV": 1}
}`
